// internal/app/features/catalog/suppliers.go
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// ServeSuppliers handles GET /api/suppliers.
func (h *Handler) ServeSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.ListSuppliers(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list suppliers failed", err)
		return
	}
	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	out := suppliersOut{Suppliers: make([]supplierOut, 0, len(users))}
	if len(ids) == 0 {
		errorsfeature.WriteJSON(w, http.StatusOK, out)
		return
	}

	var (
		products = map[primitive.ObjectID][]models.Product{}
		ratings  = map[primitive.ObjectID]reviewstore.Summary{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = h.Products.GroupBySupplier(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = h.Reviews.Summaries(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "load supplier catalog failed", err)
		return
	}

	for _, u := range users {
		out.Suppliers = append(out.Suppliers, supplierOf(u, products[u.ID], ratings[u.ID]))
	}
	errorsfeature.WriteJSON(w, http.StatusOK, out)
}

// ServeSupplier handles GET /api/suppliers/{id}.
func (h *Handler) ServeSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid supplier id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetSupplier(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		errorsfeature.WriteMessage(w, http.StatusNotFound, "Supplier not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get supplier failed", err)
		return
	}
	products, err := h.Products.ListBySupplier(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list supplier products failed", err)
		return
	}
	rating, err := h.Reviews.SummaryFor(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "supplier rating failed", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, supplierOf(*u, products, rating))
}
