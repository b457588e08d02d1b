// internal/app/features/register/routes.go
package register

import (
	"github.com/dalemusser/sahayog/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /register. writes throttles sign-ups per client IP;
// nil disables throttling.
func Routes(h *Handler, writes ratelimit.Allower) chi.Router {
	r := chi.NewRouter()
	if writes != nil {
		r.With(ratelimit.Middleware(writes, "register", ratelimit.ClientIP)).Post("/", h.HandleRegister)
	} else {
		r.Post("/", h.HandleRegister)
	}
	return r
}
