package orderflow

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/sahayog/internal/app/policy/orderpolicy"
	grouporderstore "github.com/dalemusser/sahayog/internal/app/store/grouporders"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/app/system/metrics"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateInput is what a vendor supplies to open a group order.
type CreateInput struct {
	Items           string
	TotalQuantity   int
	CreatorQuantity int
	Deadline        time.Time
	DeliveryArea    string
	// MaxParticipants falls back to models.DefaultMaxParticipants when zero.
	MaxParticipants int
	// OrderType falls back to models.OrderTypeGroup when empty.
	OrderType models.OrderType
}

// Create opens a new active group order with the creator as participant zero.
func (e *Engine) Create(ctx context.Context, p authz.Principal, in CreateInput) (models.GroupOrder, error) {
	const op = "create"
	if !orderpolicy.CanOpen(p) {
		return models.GroupOrder{}, e.refuse(op, forbidden("Only vendors can create group orders"))
	}

	items := cleanText(in.Items)
	area := cleanText(in.DeliveryArea)
	if items == "" || area == "" || in.Deadline.IsZero() || in.TotalQuantity <= 0 || in.CreatorQuantity <= 0 {
		return models.GroupOrder{}, e.refuse(op, validationf("All fields are required"))
	}
	if in.CreatorQuantity > in.TotalQuantity {
		return models.GroupOrder{}, e.refuse(op, validationf("Creator quantity cannot exceed total quantity"))
	}

	now := e.clock()
	if !in.Deadline.After(now) {
		return models.GroupOrder{}, e.refuse(op, validationf("Deadline must be in the future"))
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = models.OrderTypeGroup
	}
	if !orderType.Valid() {
		return models.GroupOrder{}, e.refuse(op, validationf("Unknown order type %q", orderType))
	}

	maxParticipants := in.MaxParticipants
	switch {
	case maxParticipants < 0:
		return models.GroupOrder{}, e.refuse(op, validationf("Max participants must be positive"))
	case orderType == models.OrderTypeIndividual:
		maxParticipants = 1
	case maxParticipants == 0:
		maxParticipants = models.DefaultMaxParticipants
	}

	g := models.GroupOrder{
		CreatorID:       p.ID,
		Items:           items,
		TotalQuantity:   in.TotalQuantity,
		CreatorQuantity: in.CreatorQuantity,
		Deadline:        in.Deadline.UTC(),
		DeliveryArea:    area,
		MaxParticipants: maxParticipants,
		Participants: []models.Participant{
			{UserID: p.ID, Quantity: in.CreatorQuantity, JoinedAt: now},
		},
		Status:          models.StatusActive,
		OrderType:       orderType,
		ReadBySuppliers: []models.SupplierRead{},
		CreatedAt:       now,
	}

	created, err := e.store.Create(ctx, g)
	if err != nil {
		return models.GroupOrder{}, wrapStore(err)
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusActive)).Inc()
	e.audit.OrderCreated(ctx, p.ID, created.ID, created.TotalQuantity, created.CreatorQuantity)
	return created, nil
}

// Join admits the vendor with quantity units. Preconditions are evaluated in
// order and the first failure is returned. Requests that do not fit the
// remaining capacity are refused outright, never clipped.
func (e *Engine) Join(ctx context.Context, p authz.Principal, id primitive.ObjectID, quantity int) (models.GroupOrder, error) {
	const op = "join"
	if !orderpolicy.CanJoin(p) {
		return models.GroupOrder{}, e.refuse(op, forbidden("Only vendors can join group orders"))
	}
	if quantity <= 0 {
		return models.GroupOrder{}, e.refuse(op, validationf("Quantity must be a positive number"))
	}

	joined, err := e.mutate(ctx, op, id, func(g models.GroupOrder) (models.GroupOrder, error) {
		switch {
		case orderpolicy.IsCreator(p, &g):
			return g, validationf("Creator cannot join their own group")
		case g.HasParticipant(p.ID):
			return g, validationf("Already a participant in this group")
		case g.IsFull():
			return g, capacityf("Group is full")
		case quantity > g.Remaining():
			return g, capacityf("Only %d units remaining. You cannot request %d units.", g.Remaining(), quantity)
		case g.Status != models.StatusActive:
			return g, stateError("Group order is no longer accepting participants")
		}
		return e.store.AddParticipant(ctx, g.ID, g.Version, models.Participant{
			UserID:   p.ID,
			Quantity: quantity,
			JoinedAt: e.clock(),
		})
	})
	if err != nil {
		return models.GroupOrder{}, err
	}

	metrics.OrderJoins.Inc()
	e.audit.OrderJoined(ctx, p.ID, joined.ID, quantity, joined.Remaining())
	return joined, nil
}

// PlaceOrder submits a fully allocated active order to suppliers.
func (e *Engine) PlaceOrder(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error) {
	const op = "place"
	placed, err := e.mutate(ctx, op, id, func(g models.GroupOrder) (models.GroupOrder, error) {
		switch {
		case !orderpolicy.IsCreator(p, &g):
			return g, forbidden("Only creator can place the group order")
		case g.Status != models.StatusActive:
			return g, stateError("Only active group orders can be placed")
		case !g.FullyAllocated():
			return g, validationf("Only %d/%d units allocated", g.Allocated(), g.TotalQuantity)
		}
		now := e.clock()
		return e.store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
			From:      models.StatusActive,
			To:        models.StatusOrdered,
			OrderedAt: &now,
			At:        now,
		})
	})
	if err != nil {
		return models.GroupOrder{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusOrdered)).Inc()
	e.audit.OrderPlaced(ctx, p.ID, placed.ID, placed.Allocated())
	return placed, nil
}

// Cancel abandons an active order. Only the creator may cancel, and only
// before placement; ordered and later orders belong to a supplier.
func (e *Engine) Cancel(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error) {
	const op = "cancel"
	cancelled, err := e.mutate(ctx, op, id, func(g models.GroupOrder) (models.GroupOrder, error) {
		switch {
		case !orderpolicy.IsCreator(p, &g):
			return g, forbidden("Only creator can cancel the group order")
		case !models.CanTransition(g.Status, models.StatusCancelled):
			return g, stateError(fmt.Sprintf("Cannot cancel a group order that is %s", g.Status))
		}
		now := e.clock()
		return e.store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
			From: g.Status,
			To:   models.StatusCancelled,
			At:   now,
		})
	})
	if err != nil {
		return models.GroupOrder{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
	e.audit.OrderCancelled(ctx, p.ID, cancelled.ID)
	return cancelled, nil
}

// Accept assigns a placed order to the supplier. When suppliers race, exactly
// one wins; the others see the order already in progress.
func (e *Engine) Accept(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error) {
	const op = "accept"
	if !orderpolicy.CanFulfil(p) {
		return models.GroupOrder{}, e.refuse(op, forbidden("Only suppliers can accept orders"))
	}

	accepted, err := e.mutate(ctx, op, id, func(g models.GroupOrder) (models.GroupOrder, error) {
		if g.Status != models.StatusOrdered {
			return g, stateError("Order is not awaiting acceptance")
		}
		now := e.clock()
		supplier := p.ID
		return e.store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
			From:       models.StatusOrdered,
			To:         models.StatusOngoing,
			SupplierID: &supplier,
			AcceptedAt: &now,
			At:         now,
		})
	})
	if err != nil {
		return models.GroupOrder{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusOngoing)).Inc()
	e.audit.OrderAccepted(ctx, p.ID, accepted.ID)
	return accepted, nil
}

// Complete marks an in-progress order delivered, making it reviewable.
func (e *Engine) Complete(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error) {
	const op = "complete"
	if !orderpolicy.CanFulfil(p) {
		return models.GroupOrder{}, e.refuse(op, forbidden("Only suppliers can complete orders"))
	}

	completed, err := e.mutate(ctx, op, id, func(g models.GroupOrder) (models.GroupOrder, error) {
		switch {
		case g.Status != models.StatusOngoing:
			return g, stateError("Order is not in progress")
		case !orderpolicy.IsAcceptingSupplier(p, &g):
			return g, forbidden("Only the accepting supplier can complete this order")
		}
		return e.store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
			From: models.StatusOngoing,
			To:   models.StatusCompleted,
			At:   e.clock(),
		})
	})
	if err != nil {
		return models.GroupOrder{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusCompleted)).Inc()
	e.audit.OrderCompleted(ctx, p.ID, completed.ID)
	return completed, nil
}

// UpdateStatus is the supplier-facing dispatcher: "ongoing" accepts and
// "completed" completes. Any other target is refused.
func (e *Engine) UpdateStatus(ctx context.Context, p authz.Principal, id primitive.ObjectID, status string) (models.GroupOrder, error) {
	to, _ := models.ParseOrderStatus(status)
	switch to {
	case models.StatusOngoing:
		return e.Accept(ctx, p, id)
	case models.StatusCompleted:
		return e.Complete(ctx, p, id)
	}
	return models.GroupOrder{}, e.refuse("update_status", validationf("Status must be %q or %q", models.StatusOngoing, models.StatusCompleted))
}

// MarkRead records that the supplier has seen the order. Repeat calls are
// harmless and status is never touched.
func (e *Engine) MarkRead(ctx context.Context, p authz.Principal, id primitive.ObjectID) (models.GroupOrder, error) {
	const op = "mark_read"
	if !orderpolicy.CanFulfil(p) {
		return models.GroupOrder{}, e.refuse(op, forbidden("Only suppliers can mark orders as read"))
	}

	g, err := e.store.MarkRead(ctx, id, models.SupplierRead{SupplierID: p.ID, ReadAt: e.clock()})
	if err != nil {
		err = wrapStore(err)
		e.reject(op, err)
		return models.GroupOrder{}, err
	}
	return g, nil
}

// ExpireStale cancels up to limit active orders whose deadline has passed.
// Orders that change underneath the sweep are skipped; the next run sees them
// again if they are still eligible. Returns how many were cancelled.
func (e *Engine) ExpireStale(ctx context.Context, limit int64) (int, error) {
	now := e.clock()
	stale, err := e.store.ListExpiredActive(ctx, now, limit)
	if err != nil {
		return 0, wrapStore(err)
	}

	n := 0
	for _, g := range stale {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		_, err := e.store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
			From: models.StatusActive,
			To:   models.StatusCancelled,
			At:   now,
		})
		if err != nil {
			e.log.Info("skipping expired group order",
				zap.String("order_id", g.ID.Hex()), zap.Error(err))
			continue
		}
		n++
		metrics.OrderTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
		e.audit.OrderExpired(ctx, g.ID, g.Allocated(), g.TotalQuantity)
	}
	return n, nil
}
