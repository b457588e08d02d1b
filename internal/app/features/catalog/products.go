// internal/app/features/catalog/products.go
package catalog

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	productstore "github.com/dalemusser/sahayog/internal/app/store/products"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/sahayog/internal/app/system/paging"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeProducts handles GET /api/products. ?supplier_id= narrows to one
// supplier ("all" or empty means every supplier); ?name= matches a name
// prefix; ?limit= caps the result.
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	f := productstore.Filter{
		Name:  normalize.QueryParam(query.Get(r, "name")),
		Limit: paging.Parse(r, paging.MaxPageSize).Limit(),
	}
	if sid := normalize.ObjectIDParam(query.Get(r, "supplier_id")); sid != "" {
		oid, err := primitive.ObjectIDFromHex(sid)
		if err != nil {
			errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid supplier id.")
			return
		}
		f.SupplierID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	products, err := h.Products.List(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list products failed", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, productsOut{Products: products})
}
