// internal/app/features/grouporders/create.go
package grouporders

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/inputval"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/grouporders.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var in createInput
	if !decode(w, r, &in) {
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, res.First())
		return
	}
	deadline, ok := parseDeadline(in.Deadline)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Deadline must be a valid date.")
		return
	}

	g, err := h.Engine.Create(r.Context(), p, orderflow.CreateInput{
		Items:           in.Items,
		TotalQuantity:   in.TotalQuantity,
		CreatorQuantity: in.CreatorQuantity,
		Deadline:        deadline,
		DeliveryArea:    in.DeliveryArea,
		MaxParticipants: in.MaxParticipants,
		OrderType:       models.OrderType(strings.TrimSpace(in.OrderType)),
	})
	if err != nil {
		h.ErrLog.Engine(w, r, "create group order", err)
		return
	}

	h.Log.Info("group order created",
		zap.String("order_id", g.ID.Hex()),
		zap.String("creator_id", p.ID.Hex()),
		zap.Int("total_quantity", g.TotalQuantity))
	errorsfeature.WriteJSON(w, http.StatusCreated, result{
		Message:    "Group order created successfully",
		GroupOrder: orderflow.ViewOf(g),
	})
}
