// internal/app/features/grouporders/routes.go
package grouporders

import (
	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/dalemusser/sahayog/internal/app/system/ratelimit"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/grouporders. writes throttles order creation and
// joins per signed-in user; nil disables throttling.
func Routes(h *Handler, sm *auth.SessionManager, writes ratelimit.Allower) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)

		// Static segments are registered before /{id} so chi prefers them.
		pr.With(sm.RequireRole(models.RoleAdmin)).Get("/all", h.ServeAll)

		pr.Group(func(vr chi.Router) {
			vr.Use(sm.RequireRole(models.RoleVendor))

			vr.Get("/available", h.ServeAvailable)
			vr.Get("/my-groups", h.ServeMyGroups)
			vr.Get("/created", h.ServeCreated)
			vr.Get("/vendor-overview", h.ServeVendorOverview)

			if writes != nil {
				vr.With(ratelimit.Middleware(writes, "create", ratelimit.UserKey)).Post("/", h.HandleCreate)
				vr.With(ratelimit.Middleware(writes, "join", ratelimit.UserKey)).Post("/{id}/join", h.HandleJoin)
			} else {
				vr.Post("/", h.HandleCreate)
				vr.Post("/{id}/join", h.HandleJoin)
			}
			vr.Post("/{id}/place-order", h.HandlePlaceOrder)
			vr.Delete("/{id}", h.HandleCancel)
		})

		pr.Group(func(sr chi.Router) {
			sr.Use(sm.RequireRole(models.RoleSupplier))

			sr.Get("/supplier", h.ServeSupplierInbox)
			sr.Get("/accepted", h.ServeAccepted)
			sr.Put("/{id}/status", h.HandleUpdateStatus)
			sr.Post("/{id}/mark-read", h.HandleMarkRead)
		})

		pr.Get("/{id}", h.ServeGet)
	})

	return r
}
