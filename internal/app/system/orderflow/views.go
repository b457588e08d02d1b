package orderflow

import (
	"context"
	"time"

	"github.com/dalemusser/sahayog/internal/app/policy/orderpolicy"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// OrderView is a group order with its derived capacity figures.
type OrderView struct {
	models.GroupOrder
	AllocatedQuantity int `json:"allocated_quantity"`
	RemainingQuantity int `json:"remaining_quantity"`
}

// InboxRow is a placed order as one supplier sees it.
type InboxRow struct {
	OrderView
	Read bool `json:"read"`
}

// Overview is the vendor dashboard summary.
type Overview struct {
	ActiveGroupOrders int64       `json:"active_group_orders"`
	PendingOrders     int64       `json:"pending_orders"`
	RecentDeliveries  int         `json:"recent_deliveries"`
	EstimatedSavings  float64     `json:"estimated_savings"`
	RecentGroupOrders []OrderView `json:"recent_group_orders"`
}

const (
	recentDeliveryWindow = 30 * 24 * time.Hour
	recentOrdersLimit    = 5
)

// ViewOf pairs g with its allocated and remaining quantities.
func ViewOf(g models.GroupOrder) OrderView {
	return OrderView{
		GroupOrder:        g,
		AllocatedQuantity: g.Allocated(),
		RemainingQuantity: g.Remaining(),
	}
}

func viewsOf(gs []models.GroupOrder) []OrderView {
	out := make([]OrderView, 0, len(gs))
	for _, g := range gs {
		out = append(out, ViewOf(g))
	}
	return out
}

// Get returns one order by id.
func (e *Engine) Get(ctx context.Context, id primitive.ObjectID) (OrderView, error) {
	g, err := e.store.GetByID(ctx, id)
	if err != nil {
		return OrderView{}, wrapStore(err)
	}
	return ViewOf(g), nil
}

// Joinable lists active orders whose deadline is ahead, optionally narrowed
// to one creator.
func (e *Engine) Joinable(ctx context.Context, creatorID *primitive.ObjectID) ([]OrderView, error) {
	gs, err := e.store.ListJoinable(ctx, e.clock(), creatorID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// AvailableToJoin lists live orders the vendor neither created nor joined.
func (e *Engine) AvailableToJoin(ctx context.Context, p authz.Principal) ([]OrderView, error) {
	gs, err := e.store.ListAvailable(ctx, p.ID, e.clock())
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// MyGroups lists live orders the vendor created or joined.
func (e *Engine) MyGroups(ctx context.Context, p authz.Principal) ([]OrderView, error) {
	gs, err := e.store.ListMine(ctx, p.ID, e.clock())
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// CreatedBy lists every order the vendor opened in any status, newest first.
func (e *Engine) CreatedBy(ctx context.Context, p authz.Principal) ([]OrderView, error) {
	gs, err := e.store.ListByCreator(ctx, p.ID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// SupplierInbox lists every placed order. All suppliers see the same set;
// Read reflects only this supplier's acknowledgement.
func (e *Engine) SupplierInbox(ctx context.Context, p authz.Principal) ([]InboxRow, error) {
	gs, err := e.store.ListByStatus(ctx, models.StatusOrdered)
	if err != nil {
		return nil, wrapStore(err)
	}
	out := make([]InboxRow, 0, len(gs))
	for _, g := range gs {
		out = append(out, InboxRow{OrderView: ViewOf(g), Read: g.ReadBy(p.ID)})
	}
	return out, nil
}

// AcceptedForSupplier lists orders this supplier accepted, in progress or done.
func (e *Engine) AcceptedForSupplier(ctx context.Context, p authz.Principal) ([]OrderView, error) {
	gs, err := e.store.ListBySupplier(ctx, p.ID, models.StatusOngoing, models.StatusCompleted)
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// All lists every order, newest first. Administrators only.
func (e *Engine) All(ctx context.Context, p authz.Principal) ([]OrderView, error) {
	if !orderpolicy.CanViewAll(p) {
		return nil, e.refuse("list_all", forbidden("Only administrators can list every order"))
	}
	gs, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, wrapStore(err)
	}
	return viewsOf(gs), nil
}

// VendorOverview gathers the vendor dashboard figures concurrently.
//
// EstimatedSavings = SavingsShare × savingsPerUnit × (the vendor's own
// quantity across orders completed since the start of the current UTC month).
func (e *Engine) VendorOverview(ctx context.Context, p authz.Principal) (Overview, error) {
	now := e.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		out       Overview
		delivered []models.GroupOrder
		thisMonth []models.GroupOrder
		recent    []models.GroupOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := e.store.CountInvolving(gctx, p.ID, models.StatusActive)
		out.ActiveGroupOrders = n
		return err
	})
	g.Go(func() error {
		n, err := e.store.CountInvolving(gctx, p.ID, models.StatusOrdered)
		out.PendingOrders = n
		return err
	})
	g.Go(func() error {
		var err error
		delivered, err = e.store.ListCompletedSince(gctx, p.ID, now.Add(-recentDeliveryWindow))
		return err
	})
	g.Go(func() error {
		var err error
		thisMonth, err = e.store.ListCompletedSince(gctx, p.ID, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = e.store.ListRecentInvolving(gctx, p.ID, recentOrdersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, wrapStore(err)
	}

	units := 0
	for _, o := range thisMonth {
		units += o.QuantityFor(p.ID)
	}

	out.RecentDeliveries = len(delivered)
	out.EstimatedSavings = SavingsShare * float64(units) * e.savingsPerUnit
	out.RecentGroupOrders = viewsOf(recent)
	return out, nil
}
