// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	"github.com/dalemusser/sahayog/internal/app/store/audit"
	"github.com/dalemusser/sahayog/internal/app/system/normalize"
	"github.com/dalemusser/sahayog/internal/app/system/paging"
	"github.com/dalemusser/sahayog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// historyLimit caps the events returned for a single order.
const historyLimit = 200

// ServeList returns a filtered, paged page of audit events, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(normalize.QueryParam(query.Get(r, "category")))
	if !validCategory(category) {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Unknown audit category.")
		return
	}
	start, ok := parseDay(normalize.QueryParam(query.Get(r, "start_date")), false)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD.")
		return
	}
	end, ok := parseDay(normalize.QueryParam(query.Get(r, "end_date")), true)
	if !ok {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD.")
		return
	}

	page := paging.Parse(r, paging.PageSize)
	filter := audit.QueryFilter{
		Category:  category,
		EventType: normalize.QueryParam(query.Get(r, "event_type")),
		StartTime: start,
		EndTime:   end,
		Limit:     page.Limit(),
		Offset:    page.Offset(),
	}
	if uid := normalize.ObjectIDParam(query.Get(r, "user_id")); uid != "" {
		oid, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid user id.")
			return
		}
		filter.UserID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err)
		return
	}
	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err)
		return
	}

	errorsfeature.WriteJSON(w, http.StatusOK, listResponse{
		Items:  h.resolve(ctx, events),
		Paging: page.Meta(total),
	})
}

// ServeOrderHistory returns every recorded event for one group order, newest
// first.
func (h *Handler) ServeOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		errorsfeature.WriteMessage(w, http.StatusBadRequest, "Invalid group order id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.GetByOrder(ctx, id, historyLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "order audit history failed", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, historyResponse{
		OrderID: id.Hex(),
		Items:   h.resolve(ctx, events),
	})
}

// resolve attaches display names for actors and subjects in one batch.
// Unknown ids fall back to their hex form; a lookup failure is logged and
// leaves hex ids in place.
func (h *Handler) resolve(ctx context.Context, events []audit.Event) []item {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(events))
	add := func(id *primitive.ObjectID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	for _, e := range events {
		add(e.ActorID)
		add(e.UserID)
	}

	names := map[primitive.ObjectID]string{}
	if len(ids) > 0 {
		got, err := h.Users.DisplayNames(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to resolve audit user names", zap.Error(err))
		} else {
			names = got
		}
	}
	nameOf := func(id *primitive.ObjectID) string {
		if id == nil {
			return ""
		}
		if n, ok := names[*id]; ok && n != "" {
			return n
		}
		return id.Hex()
	}

	out := make([]item, 0, len(events))
	for _, e := range events {
		out = append(out, item{
			Event:      e,
			ActorName:  nameOf(e.ActorID),
			TargetName: nameOf(e.UserID),
		})
	}
	return out
}
