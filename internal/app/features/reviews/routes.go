// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts reviews under /api/reviews.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/supplier/{supplier_id}", h.ServeForSupplier)
	r.With(sm.RequireRole("vendor")).Post("/", h.HandleCreate)
	return r
}
