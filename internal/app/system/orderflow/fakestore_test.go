package orderflow_test

import (
	"context"
	"sort"
	"sync"
	"time"

	grouporderstore "github.com/dalemusser/sahayog/internal/app/store/grouporders"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mirrors the conditional-write semantics of grouporderstore.Store
// in memory: writes match on id, version and status under one lock.
type memStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.GroupOrder
	failOn string
	err    error
}

func newMemStore() *memStore {
	return &memStore{orders: map[primitive.ObjectID]models.GroupOrder{}}
}

func clone(g models.GroupOrder) models.GroupOrder {
	g.Participants = append([]models.Participant(nil), g.Participants...)
	g.ReadBySuppliers = append([]models.SupplierRead(nil), g.ReadBySuppliers...)
	if g.SupplierID != nil {
		s := *g.SupplierID
		g.SupplierID = &s
	}
	return g
}

// seed stores g as-is, assigning an id when missing.
func (m *memStore) seed(g models.GroupOrder) models.GroupOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	if g.Version == 0 {
		g.Version = 1
	}
	m.orders[g.ID] = clone(g)
	return clone(g)
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) failing(op string) error {
	if m.failOn == op {
		return m.err
	}
	return nil
}

func (m *memStore) Create(_ context.Context, g models.GroupOrder) (models.GroupOrder, error) {
	if err := m.failing("Create"); err != nil {
		return models.GroupOrder{}, err
	}
	g.ID = primitive.NewObjectID()
	g.UpdatedAt = g.CreatedAt
	g.Version = 1
	return m.seed(g), nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (models.GroupOrder, error) {
	if err := m.failing("GetByID"); err != nil {
		return models.GroupOrder{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.orders[id]
	if !ok {
		return models.GroupOrder{}, grouporderstore.ErrNotFound
	}
	return clone(g), nil
}

func (m *memStore) update(id primitive.ObjectID, version int64, status models.OrderStatus, fn func(*models.GroupOrder)) (models.GroupOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.orders[id]
	if !ok {
		return models.GroupOrder{}, grouporderstore.ErrNotFound
	}
	if g.Version != version || g.Status != status {
		return models.GroupOrder{}, grouporderstore.ErrConflict
	}
	g = clone(g)
	fn(&g)
	g.Version++
	m.orders[id] = g
	return clone(g), nil
}

func (m *memStore) AddParticipant(_ context.Context, id primitive.ObjectID, version int64, p models.Participant) (models.GroupOrder, error) {
	return m.update(id, version, models.StatusActive, func(g *models.GroupOrder) {
		g.Participants = append(g.Participants, p)
		g.UpdatedAt = p.JoinedAt
	})
}

func (m *memStore) Transition(_ context.Context, id primitive.ObjectID, version int64, ch grouporderstore.Change) (models.GroupOrder, error) {
	return m.update(id, version, ch.From, func(g *models.GroupOrder) {
		g.Status = ch.To
		g.UpdatedAt = ch.At
		if ch.SupplierID != nil {
			s := *ch.SupplierID
			g.SupplierID = &s
		}
		if ch.OrderedAt != nil {
			t := *ch.OrderedAt
			g.OrderedAt = &t
		}
		if ch.AcceptedAt != nil {
			t := *ch.AcceptedAt
			g.AcceptedAt = &t
		}
	})
}

func (m *memStore) MarkRead(_ context.Context, id primitive.ObjectID, read models.SupplierRead) (models.GroupOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.orders[id]
	if !ok {
		return models.GroupOrder{}, grouporderstore.ErrNotFound
	}
	if !g.ReadBy(read.SupplierID) {
		g = clone(g)
		g.ReadBySuppliers = append(g.ReadBySuppliers, read)
		m.orders[id] = g
	}
	return clone(g), nil
}

func (m *memStore) filter(keep func(g models.GroupOrder) bool, less func(a, b models.GroupOrder) bool) ([]models.GroupOrder, error) {
	if err := m.failing("List"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.GroupOrder{}
	for _, g := range m.orders {
		if keep(g) {
			out = append(out, clone(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func byDeadline(a, b models.GroupOrder) bool  { return a.Deadline.Before(b.Deadline) }
func newestFirst(a, b models.GroupOrder) bool { return a.CreatedAt.After(b.CreatedAt) }

func (m *memStore) ListJoinable(_ context.Context, now time.Time, creatorID *primitive.ObjectID) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool {
		return g.Status == models.StatusActive && g.Deadline.After(now) &&
			(creatorID == nil || g.CreatorID == *creatorID)
	}, byDeadline)
}

func (m *memStore) ListAvailable(_ context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool {
		return g.Status == models.StatusActive && g.Deadline.After(now) &&
			g.CreatorID != vendorID && !g.HasParticipant(vendorID)
	}, byDeadline)
}

func (m *memStore) ListMine(_ context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool {
		return g.Status == models.StatusActive && g.Deadline.After(now) && g.Involves(vendorID)
	}, byDeadline)
}

func (m *memStore) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool { return g.Status == status }, newestFirst)
}

func (m *memStore) ListBySupplier(_ context.Context, supplierID primitive.ObjectID, statuses ...models.OrderStatus) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool {
		if g.SupplierID == nil || *g.SupplierID != supplierID {
			return false
		}
		for _, s := range statuses {
			if g.Status == s {
				return true
			}
		}
		return len(statuses) == 0
	}, newestFirst)
}

func (m *memStore) ListByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool { return g.CreatorID == creatorID }, newestFirst)
}

func (m *memStore) ListAll(_ context.Context) ([]models.GroupOrder, error) {
	return m.filter(func(models.GroupOrder) bool { return true }, newestFirst)
}

func (m *memStore) CountInvolving(_ context.Context, vendorID primitive.ObjectID, status models.OrderStatus) (int64, error) {
	gs, err := m.filter(func(g models.GroupOrder) bool {
		return g.Status == status && g.Involves(vendorID)
	}, newestFirst)
	return int64(len(gs)), err
}

func (m *memStore) ListCompletedSince(_ context.Context, vendorID primitive.ObjectID, since time.Time) ([]models.GroupOrder, error) {
	return m.filter(func(g models.GroupOrder) bool {
		return g.Status == models.StatusCompleted && g.Involves(vendorID) && !g.UpdatedAt.Before(since)
	}, newestFirst)
}

func (m *memStore) ListRecentInvolving(_ context.Context, vendorID primitive.ObjectID, limit int64) ([]models.GroupOrder, error) {
	gs, err := m.filter(func(g models.GroupOrder) bool {
		return g.Status != models.StatusCancelled && g.Involves(vendorID)
	}, newestFirst)
	if err != nil {
		return nil, err
	}
	if int64(len(gs)) > limit {
		gs = gs[:limit]
	}
	return gs, nil
}

func (m *memStore) ListExpiredActive(_ context.Context, now time.Time, limit int64) ([]models.GroupOrder, error) {
	gs, err := m.filter(func(g models.GroupOrder) bool {
		return g.Status == models.StatusActive && !g.Deadline.After(now)
	}, byDeadline)
	if err != nil {
		return nil, err
	}
	if int64(len(gs)) > limit {
		gs = gs[:limit]
	}
	return gs, nil
}
