// internal/app/features/grouporders/actions.go
package grouporders

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/inputval"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type transition func(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error)

// act runs a body-less lifecycle operation against the {id} order.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, op, done string, fn transition) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	g, err := fn(r.Context(), p, id)
	if err != nil {
		h.ErrLog.Engine(w, r, op, err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, result{Message: done, GroupOrder: orderflow.ViewOf(g)})
}

// HandleJoin handles POST /api/grouporders/{id}/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var in joinInput
	if !decode(w, r, &in) {
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, res.First())
		return
	}

	g, err := h.Engine.Join(r.Context(), p, id, in.Quantity)
	if err != nil {
		h.ErrLog.Engine(w, r, "join group order", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, result{
		Message:    "Joined group successfully",
		GroupOrder: orderflow.ViewOf(g),
	})
}

// HandlePlaceOrder handles POST /api/grouporders/{id}/place-order.
func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "place group order", "Group order placed successfully", h.Engine.PlaceOrder)
}

// HandleCancel handles DELETE /api/grouporders/{id}.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "cancel group order", "Group order cancelled successfully", h.Engine.Cancel)
}

// HandleMarkRead handles POST /api/grouporders/{id}/mark-read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "mark group order read", "Order marked as read", h.Engine.MarkRead)
}

// HandleUpdateStatus handles PUT /api/grouporders/{id}/status with
// {"status":"ongoing"} to accept or {"status":"completed"} to complete.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var in statusInput
	if !decode(w, r, &in) {
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, res.First())
		return
	}

	status := normalize.OrderStatus(in.Status)
	g, err := h.Engine.UpdateStatus(r.Context(), p, id, status)
	if err != nil {
		h.ErrLog.Engine(w, r, "update group order status", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, result{
		Message:    "Order status updated to " + string(g.Status),
		GroupOrder: orderflow.ViewOf(g),
	})
}
