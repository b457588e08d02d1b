// internal/app/features/catalog/routes.go
package catalog

import (
	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// SupplierRoutes mounts the supplier directory under /api/suppliers.
func SupplierRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSuppliers)
	r.Get("/{id}", h.ServeSupplier)
	return r
}

// ProductRoutes mounts the catalog under /api/products.
func ProductRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProducts)
	return r
}
