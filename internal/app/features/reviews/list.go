// internal/app/features/reviews/list.go
package reviews

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/paging"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeForSupplier handles GET /api/reviews/supplier/{supplier_id}: the
// supplier's rating summary and their reviews, newest first.
func (h *Handler) ServeForSupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "supplier_id")))
	if err != nil {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid supplier id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	revs, err := h.Reviews.ListBySupplier(ctx, supplierID, paging.Parse(r, paging.PageSize).Limit())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reviews failed", err)
		return
	}
	summary, err := h.Reviews.SummaryFor(ctx, supplierID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "review summary failed", err)
		return
	}

	vendorIDs := make([]primitive.ObjectID, 0, len(revs))
	for _, rv := range revs {
		vendorIDs = append(vendorIDs, rv.VendorID)
	}
	names, err := h.Users.DisplayNames(ctx, vendorIDs)
	if err != nil {
		h.Log.Warn("failed to resolve reviewer names", zap.Error(err))
	}

	out := supplierReviewsOut{
		SupplierID: supplierID.Hex(),
		Rating:     summary,
		Reviews:    make([]reviewOut, 0, len(revs)),
	}
	for _, rv := range revs {
		out.Reviews = append(out.Reviews, reviewOut{Review: rv, VendorName: names[rv.VendorID]})
	}
	errorsfeature.WriteJSON(w, http.StatusOK, out)
}
