// Package orderflow is the group-order lifecycle engine: admission of
// participants, placement, supplier acceptance and completion.
//
// Every operation receives the caller as an explicit authz.Principal. Each
// mutation is a read, a precondition check, and a conditional write that
// re-asserts the version and status that were read; a lost race is retried
// from the read so the loser gets the business error the new state implies.
package orderflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	grouporderstore "github.com/dalemusser/sahayog/internal/app/store/grouporders"
	"github.com/dalemusser/sahayog/internal/app/system/auditlog"
	"github.com/dalemusser/sahayog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sahayog/internal/app/system/metrics"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the engine needs. *grouporderstore.Store
// satisfies it.
type Store interface {
	Create(ctx context.Context, g models.GroupOrder) (models.GroupOrder, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupOrder, error)
	AddParticipant(ctx context.Context, id primitive.ObjectID, version int64, p models.Participant) (models.GroupOrder, error)
	Transition(ctx context.Context, id primitive.ObjectID, version int64, ch grouporderstore.Change) (models.GroupOrder, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, read models.SupplierRead) (models.GroupOrder, error)

	ListJoinable(ctx context.Context, now time.Time, creatorID *primitive.ObjectID) ([]models.GroupOrder, error)
	ListAvailable(ctx context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error)
	ListMine(ctx context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.GroupOrder, error)
	ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, statuses ...models.OrderStatus) ([]models.GroupOrder, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.GroupOrder, error)
	ListAll(ctx context.Context) ([]models.GroupOrder, error)
	CountInvolving(ctx context.Context, vendorID primitive.ObjectID, status models.OrderStatus) (int64, error)
	ListCompletedSince(ctx context.Context, vendorID primitive.ObjectID, since time.Time) ([]models.GroupOrder, error)
	ListRecentInvolving(ctx context.Context, vendorID primitive.ObjectID, limit int64) ([]models.GroupOrder, error)
	ListExpiredActive(ctx context.Context, now time.Time, limit int64) ([]models.GroupOrder, error)
}

const (
	// DefaultSavingsPerUnit is the assumed saving, in rupees, on each unit
	// bought through a completed group order.
	DefaultSavingsPerUnit = 10.0
	// SavingsShare is the fraction of that per-unit saving credited to the
	// vendor's estimate.
	SavingsShare = 0.20

	defaultMaxRetries = 5
)

// Engine applies lifecycle operations against a Store.
type Engine struct {
	store          Store
	audit          *auditlog.Logger
	log            *zap.Logger
	now            func() time.Time
	savingsPerUnit float64
	maxRetries     uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithAudit records lifecycle events. A nil logger disables auditing.
func WithAudit(a *auditlog.Logger) Option { return func(e *Engine) { e.audit = a } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithSavingsPerUnit sets the per-unit saving used by VendorOverview.
func WithSavingsPerUnit(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.savingsPerUnit = v
		}
	}
}

// WithMaxRetries bounds how often a conflicting write is re-evaluated.
func WithMaxRetries(n uint64) Option { return func(e *Engine) { e.maxRetries = n } }

// New returns an Engine over store.
func New(store Store, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		log:            log,
		now:            time.Now,
		savingsPerUnit: DefaultSavingsPerUnit,
		maxRetries:     defaultMaxRetries,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) clock() time.Time { return e.now().UTC() }

// mutate loads the order, lets apply check preconditions and issue the
// conditional write, and repeats on ErrConflict with a short exponential
// backoff. Business errors and storage failures stop immediately.
func (e *Engine) mutate(ctx context.Context, op string, id primitive.ObjectID, apply func(g models.GroupOrder) (models.GroupOrder, error)) (models.GroupOrder, error) {
	var out models.GroupOrder

	attempt := func() error {
		g, err := e.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, grouporderstore.ErrNotFound) {
				return backoff.Permanent(notFound())
			}
			return backoff.Permanent(fmt.Errorf("load group order: %w", err))
		}

		updated, err := apply(g)
		switch {
		case err == nil:
			out = updated
			return nil
		case errors.Is(err, grouporderstore.ErrConflict):
			metrics.ConflictRetries.WithLabelValues(op).Inc()
			e.log.Debug("group order write conflict; re-evaluating",
				zap.String("op", op), zap.String("order_id", id.Hex()))
			return err
		case errors.Is(err, grouporderstore.ErrNotFound):
			return backoff.Permanent(notFound())
		default:
			return backoff.Permanent(err)
		}
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(5*time.Millisecond),
		backoff.WithMaxInterval(100*time.Millisecond),
		backoff.WithMaxElapsedTime(2*time.Second),
	)
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(b, e.maxRetries), ctx))
	if err != nil {
		if errors.Is(err, grouporderstore.ErrConflict) {
			e.log.Warn("group order write conflict persisted",
				zap.String("op", op), zap.String("order_id", id.Hex()))
			err = stateError("Group order was modified concurrently, please try again")
		}
		e.reject(op, err)
		return models.GroupOrder{}, err
	}
	return out, nil
}

func (e *Engine) reject(op string, err error) {
	if kind, ok := KindOf(err); ok {
		metrics.Rejections.WithLabelValues(op, string(kind)).Inc()
	}
}

func (e *Engine) refuse(op string, err *Error) error {
	e.reject(op, err)
	return err
}

func wrapStore(err error) error {
	if errors.Is(err, grouporderstore.ErrNotFound) {
		return notFound()
	}
	return fmt.Errorf("group order store: %w", err)
}

// cleanText strips markup and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(htmlsanitize.PlainText(s)), " ")
}
