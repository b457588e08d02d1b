// internal/app/features/dashboard/supplier.go
package dashboard

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type supplierData struct {
	base
	NewOrders       int                   `json:"new_orders"`
	UnreadOrders    int                   `json:"unread_orders"`
	InProgress      int                   `json:"in_progress"`
	Completed       int                   `json:"completed"`
	Rating          reviewstore.Summary   `json:"rating"`
	RecentDelivered []orderflow.OrderView `json:"recent_delivered"`
}

// recentDeliveredLimit caps the completed orders listed on the dashboard.
const recentDeliveredLimit = 5

func (h *Handler) ServeSupplier(w http.ResponseWriter, r *http.Request, p authz.Principal) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout())
	defer cancel()

	var (
		inbox    []orderflow.InboxRow
		accepted []orderflow.OrderView
		rating   reviewstore.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inbox, err = h.Engine.SupplierInbox(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		accepted, err = h.Engine.AcceptedForSupplier(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		rating, err = h.Reviews.SummaryFor(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.Engine(w, r, "supplier dashboard", err)
		return
	}

	data := supplierData{
		base:            baseOf(r, p),
		NewOrders:       len(inbox),
		Rating:          rating,
		RecentDelivered: []orderflow.OrderView{},
	}
	for _, row := range inbox {
		if !row.Read {
			data.UnreadOrders++
		}
	}
	for _, o := range accepted {
		switch o.Status {
		case models.StatusOngoing:
			data.InProgress++
		case models.StatusCompleted:
			data.Completed++
			if len(data.RecentDelivered) < recentDeliveredLimit {
				data.RecentDelivered = append(data.RecentDelivered, o)
			}
		}
	}
	errorsfeature.WriteJSON(w, http.StatusOK, data)
}
