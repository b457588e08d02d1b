// internal/app/features/reviews/create.go
package reviews

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/policy/orderpolicy"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/formutil"
	"github.com/dalemusser/sahayog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const alreadyReviewed = "You have already reviewed this order"

// HandleCreate handles POST /api/reviews.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in reviewInput
	if err := formutil.Bind(w, r, &in); err != nil {
		errorsfeature.WriteMessage(w, formutil.StatusOf(err), err.Error())
		return
	}
	orderID, _ := primitive.ObjectIDFromHex(strings.TrimSpace(in.OrderID))
	supplierID, _ := primitive.ObjectIDFromHex(strings.TrimSpace(in.SupplierID))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	order, err := h.Engine.Get(ctx, orderID)
	if err != nil {
		h.ErrLog.Engine(w, r, "review order lookup", err)
		return
	}
	if msg := orderpolicy.ReviewRefusal(p, &order.GroupOrder, supplierID); msg != "" {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, msg)
		return
	}

	done, err := h.Reviews.Exists(ctx, orderID, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "review exists check failed", err)
		return
	}
	if done {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, alreadyReviewed)
		return
	}

	rev, err := h.Reviews.Create(ctx, models.Review{
		OrderID:    orderID,
		SupplierID: supplierID,
		VendorID:   p.ID,
		Rating:     in.Rating,
		Comment:    htmlsanitize.PlainText(in.Comment),
	})
	switch {
	case errors.Is(err, reviewstore.ErrDuplicate):
		errorsfeature.WriteMessage(w, http.StatusBadRequest, alreadyReviewed)
		return
	case errors.Is(err, reviewstore.ErrBadRating):
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create review failed", err)
		return
	}

	h.AuditLog.ReviewSubmitted(ctx, p.ID, orderID, supplierID, rev.Rating)
	h.Log.Info("review submitted",
		zap.String("order_id", orderID.Hex()),
		zap.String("supplier_id", supplierID.Hex()),
		zap.Int("rating", rev.Rating))
	errorsfeature.WriteJSON(w, http.StatusCreated, createOut{
		Message: "Review submitted successfully",
		Review:  rev,
	})
}
