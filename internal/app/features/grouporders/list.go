// internal/app/features/grouporders/list.go
package grouporders

import (
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /api/grouporders: active orders whose deadline is
// still ahead, soonest first. ?creator_id= narrows to one creator.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var creator *primitive.ObjectID
	if raw := normalize.ObjectIDParam(query.Get(r, "creator_id")); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			errorsfeature.WriteMessage(w, http.StatusBadRequest, "creator_id must be a valid id.")
			return
		}
		creator = &id
	}

	rows, err := h.Engine.Joinable(r.Context(), creator)
	if err != nil {
		h.ErrLog.Engine(w, r, "list group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeAll handles GET /api/grouporders/all.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.All(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "list all group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeAvailable handles GET /api/grouporders/available.
func (h *Handler) ServeAvailable(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.AvailableToJoin(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "list available group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeMyGroups handles GET /api/grouporders/my-groups.
func (h *Handler) ServeMyGroups(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.MyGroups(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "list my group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeCreated handles GET /api/grouporders/created.
func (h *Handler) ServeCreated(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.CreatedBy(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "list created group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeVendorOverview handles GET /api/grouporders/vendor-overview.
func (h *Handler) ServeVendorOverview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	ov, err := h.Engine.VendorOverview(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "vendor overview", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, ov)
}

// ServeSupplierInbox handles GET /api/grouporders/supplier.
func (h *Handler) ServeSupplierInbox(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.SupplierInbox(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "supplier inbox", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeAccepted handles GET /api/grouporders/accepted.
func (h *Handler) ServeAccepted(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	rows, err := h.Engine.AcceptedForSupplier(r.Context(), p)
	if err != nil {
		h.ErrLog.Engine(w, r, "accepted group orders", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rows)
}

// ServeGet handles GET /api/grouporders/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	g, err := h.Engine.Get(r.Context(), id)
	if err != nil {
		h.ErrLog.Engine(w, r, "get group order", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, g)
}
