package grouporderstore_test

import (
	"errors"
	"testing"
	"time"

	grouporderstore "github.com/dalemusser/sahayog/internal/app/store/grouporders"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/sahayog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newOrder(creator primitive.ObjectID, total, creatorQty int, deadline time.Time) models.GroupOrder {
	now := time.Now().UTC()
	return models.GroupOrder{
		CreatorID:       creator,
		Items:           "Tomatoes",
		TotalQuantity:   total,
		CreatorQuantity: creatorQty,
		Deadline:        deadline,
		DeliveryArea:    "Sector 5",
		MaxParticipants: models.DefaultMaxParticipants,
		Participants:    []models.Participant{{UserID: creator, Quantity: creatorQty, JoinedAt: now}},
		Status:          models.StatusActive,
		OrderType:       models.OrderTypeGroup,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Create(ctx, newOrder(creator, 100, 30, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Version != 1 {
		t.Errorf("Version: got %d, want 1", created.Version)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CreatorID != creator {
		t.Errorf("CreatorID: got %v, want %v", got.CreatorID, creator)
	}
	if len(got.Participants) != 1 || got.Participants[0].Quantity != 30 {
		t.Errorf("Participants: got %+v, want creator with 30", got.Participants)
	}
	if got.Status != models.StatusActive {
		t.Errorf("Status: got %q, want active", got.Status)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, grouporderstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AddParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newOrder(primitive.NewObjectID(), 100, 30, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	vendor := primitive.NewObjectID()
	updated, err := store.AddParticipant(ctx, created.ID, created.Version, models.Participant{
		UserID:   vendor,
		Quantity: 50,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version: got %d, want 2", updated.Version)
	}
	if updated.Allocated() != 80 {
		t.Errorf("Allocated: got %d, want 80", updated.Allocated())
	}
	if !updated.HasParticipant(vendor) {
		t.Error("expected vendor to be a participant")
	}
}

func TestStore_AddParticipant_StaleVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newOrder(primitive.NewObjectID(), 100, 30, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := models.Participant{UserID: primitive.NewObjectID(), Quantity: 50, JoinedAt: time.Now().UTC()}
	if _, err := store.AddParticipant(ctx, created.ID, created.Version, first); err != nil {
		t.Fatalf("first AddParticipant failed: %v", err)
	}

	// Same version as the first writer read: must lose.
	second := models.Participant{UserID: primitive.NewObjectID(), Quantity: 30, JoinedAt: time.Now().UTC()}
	_, err = store.AddParticipant(ctx, created.ID, created.Version, second)
	if !errors.Is(err, grouporderstore.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.Allocated() != 80 {
		t.Errorf("Allocated after conflict: got %d, want 80", got.Allocated())
	}
}

func TestStore_AddParticipant_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.AddParticipant(ctx, primitive.NewObjectID(), 1, models.Participant{UserID: primitive.NewObjectID(), Quantity: 1})
	if !errors.Is(err, grouporderstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Transition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupOrder(ctx, primitive.NewObjectID(), 50, 50, models.StatusOrdered)
	supplier := primitive.NewObjectID()
	now := time.Now().UTC()

	updated, err := store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
		From:       models.StatusOrdered,
		To:         models.StatusOngoing,
		SupplierID: &supplier,
		AcceptedAt: &now,
		At:         now,
	})
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if updated.Status != models.StatusOngoing {
		t.Errorf("Status: got %q, want ongoing", updated.Status)
	}
	if updated.SupplierID == nil || *updated.SupplierID != supplier {
		t.Errorf("SupplierID: got %v, want %v", updated.SupplierID, supplier)
	}
	if updated.AcceptedAt == nil {
		t.Error("expected AcceptedAt to be set")
	}

	// A second supplier that read the same version loses.
	other := primitive.NewObjectID()
	_, err = store.Transition(ctx, g.ID, g.Version, grouporderstore.Change{
		From:       models.StatusOrdered,
		To:         models.StatusOngoing,
		SupplierID: &other,
		At:         now,
	})
	if !errors.Is(err, grouporderstore.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestStore_MarkRead_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupOrder(ctx, primitive.NewObjectID(), 50, 50, models.StatusOrdered)
	supplier := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		got, err := store.MarkRead(ctx, g.ID, models.SupplierRead{SupplierID: supplier, ReadAt: time.Now().UTC()})
		if err != nil {
			t.Fatalf("MarkRead #%d failed: %v", i+1, err)
		}
		if len(got.ReadBySuppliers) != 1 {
			t.Errorf("MarkRead #%d: got %d read entries, want 1", i+1, len(got.ReadBySuppliers))
		}
		if got.Version != g.Version {
			t.Errorf("MarkRead #%d bumped version to %d", i+1, got.Version)
		}
	}

	_, err := store.MarkRead(ctx, primitive.NewObjectID(), models.SupplierRead{SupplierID: supplier})
	if !errors.Is(err, grouporderstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing order, got %v", err)
	}
}

func TestStore_ListAvailableAndMine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()

	mine, err := store.Create(ctx, newOrder(vendorA, 100, 10, now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	theirs, err := store.Create(ctx, newOrder(vendorB, 100, 10, now.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newOrder(vendorB, 100, 10, now.Add(-time.Hour))); err != nil {
		t.Fatalf("Create expired failed: %v", err)
	}

	available, err := store.ListAvailable(ctx, vendorA, now)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(available) != 1 || available[0].ID != theirs.ID {
		t.Errorf("ListAvailable: got %d orders, want only vendorB's live order", len(available))
	}

	if _, err := store.AddParticipant(ctx, theirs.ID, theirs.Version, models.Participant{UserID: vendorA, Quantity: 5, JoinedAt: now}); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}

	available, err = store.ListAvailable(ctx, vendorA, now)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("ListAvailable after join: got %d, want 0", len(available))
	}

	groups, err := store.ListMine(ctx, vendorA, now)
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("ListMine: got %d, want 2", len(groups))
	}
	// Soonest deadline first.
	if groups[0].ID != mine.ID || groups[1].ID != theirs.ID {
		t.Error("ListMine: expected deadline ascending order")
	}
}

func TestStore_ListJoinable_CreatorFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	for _, c := range []primitive.ObjectID{a, a, b} {
		if _, err := store.Create(ctx, newOrder(c, 10, 1, now.Add(time.Hour))); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := store.ListJoinable(ctx, now, nil)
	if err != nil {
		t.Fatalf("ListJoinable failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListJoinable(nil): got %d, want 3", len(all))
	}

	onlyA, err := store.ListJoinable(ctx, now, &a)
	if err != nil {
		t.Fatalf("ListJoinable failed: %v", err)
	}
	if len(onlyA) != 2 {
		t.Errorf("ListJoinable(a): got %d, want 2", len(onlyA))
	}
}

func TestStore_ListByCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	older, err := store.Create(ctx, newOrder(a, 10, 1, now.Add(-time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	placed := newOrder(a, 10, 10, now.Add(time.Hour))
	placed.Status = models.StatusOrdered
	placed.CreatedAt = now.Add(time.Minute)
	newer, err := store.Create(ctx, placed)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newOrder(b, 10, 1, now.Add(time.Hour))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListByCreator(ctx, a)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByCreator(a): got %d, want 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("expected newest first, got %s then %s", got[0].ID.Hex(), got[1].ID.Hex())
	}
}

func TestStore_SupplierQueries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	supplier := primitive.NewObjectID()
	fixtures.CreateGroupOrder(ctx, creator, 10, 10, models.StatusOrdered)
	fixtures.CreateGroupOrder(ctx, creator, 10, 10, models.StatusOrdered)
	accepted := fixtures.CreateGroupOrder(ctx, creator, 10, 10, models.StatusOrdered)

	now := time.Now().UTC()
	if _, err := store.Transition(ctx, accepted.ID, accepted.Version, grouporderstore.Change{
		From: models.StatusOrdered, To: models.StatusOngoing, SupplierID: &supplier, AcceptedAt: &now, At: now,
	}); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	ordered, err := store.ListByStatus(ctx, models.StatusOrdered)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(ordered) != 2 {
		t.Errorf("ListByStatus(ordered): got %d, want 2", len(ordered))
	}

	mine, err := store.ListBySupplier(ctx, supplier, models.StatusOngoing, models.StatusCompleted)
	if err != nil {
		t.Fatalf("ListBySupplier failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != accepted.ID {
		t.Errorf("ListBySupplier: got %d, want the accepted order", len(mine))
	}
}

func TestStore_VendorAggregates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vendor := primitive.NewObjectID()
	fixtures.CreateGroupOrder(ctx, vendor, 10, 5, models.StatusActive)
	fixtures.CreateGroupOrder(ctx, vendor, 10, 5, models.StatusActive)
	fixtures.CreateGroupOrder(ctx, vendor, 10, 10, models.StatusCompleted)
	fixtures.CreateGroupOrder(ctx, vendor, 10, 5, models.StatusCancelled)
	fixtures.CreateGroupOrder(ctx, primitive.NewObjectID(), 10, 5, models.StatusActive)

	n, err := store.CountInvolving(ctx, vendor, models.StatusActive)
	if err != nil {
		t.Fatalf("CountInvolving failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountInvolving(active): got %d, want 2", n)
	}

	done, err := store.ListCompletedSince(ctx, vendor, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListCompletedSince failed: %v", err)
	}
	if len(done) != 1 {
		t.Errorf("ListCompletedSince: got %d, want 1", len(done))
	}

	recent, err := store.ListRecentInvolving(ctx, vendor, 5)
	if err != nil {
		t.Fatalf("ListRecentInvolving failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("ListRecentInvolving: got %d, want 3 (cancelled excluded)", len(recent))
	}
	for _, g := range recent {
		if g.Status == models.StatusCancelled {
			t.Error("ListRecentInvolving returned a cancelled order")
		}
	}
}

func TestStore_ListExpiredActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grouporderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	expired, err := store.Create(ctx, newOrder(primitive.NewObjectID(), 10, 1, now.Add(-time.Minute)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newOrder(primitive.NewObjectID(), 10, 1, now.Add(time.Hour))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListExpiredActive(ctx, now, 10)
	if err != nil {
		t.Fatalf("ListExpiredActive failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != expired.ID {
		t.Errorf("ListExpiredActive: got %d orders, want the expired one", len(got))
	}
}
