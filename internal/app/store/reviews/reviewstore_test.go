package reviewstore_test

import (
	"math"
	"testing"
	"time"

	reviewstore "github.com/dalemusser/sahayog/internal/app/store/reviews"
	"github.com/dalemusser/sahayog/internal/app/system/indexes"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/sahayog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	r := models.Review{
		OrderID:    primitive.NewObjectID(),
		SupplierID: primitive.NewObjectID(),
		VendorID:   primitive.NewObjectID(),
		Rating:     4,
		Comment:    "On time",
	}
	created, err := store.Create(ctx, r)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() || created.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}

	exists, err := store.Exists(ctx, r.OrderID, r.VendorID)
	if err != nil || !exists {
		t.Errorf("Exists: got %v, %v; want true", exists, err)
	}

	r.Rating = 1
	if _, err := store.Create(ctx, r); err != reviewstore.ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_Create_BadRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, rating := range []int{0, 6, -1} {
		_, err := store.Create(ctx, models.Review{OrderID: primitive.NewObjectID(), Rating: rating})
		if err != reviewstore.ErrBadRating {
			t.Errorf("rating %d: expected ErrBadRating, got %v", rating, err)
		}
	}
}

func TestStore_ListAndSummaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sup := primitive.NewObjectID()
	other := primitive.NewObjectID()
	unrated := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)

	for i, rating := range []int{5, 4, 2} {
		_, err := store.Create(ctx, models.Review{
			OrderID:    primitive.NewObjectID(),
			SupplierID: sup,
			VendorID:   primitive.NewObjectID(),
			Rating:     rating,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Review{OrderID: primitive.NewObjectID(), SupplierID: other, VendorID: primitive.NewObjectID(), Rating: 3}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.ListBySupplier(ctx, sup, 0)
	if err != nil {
		t.Fatalf("ListBySupplier failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListBySupplier: got %d, want 3", len(list))
	}
	if list[0].Rating != 2 {
		t.Errorf("newest first: got rating %d, want 2", list[0].Rating)
	}

	limited, err := store.ListBySupplier(ctx, sup, 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("ListBySupplier(limit 2): got %d, %v", len(limited), err)
	}

	sums, err := store.Summaries(ctx, []primitive.ObjectID{sup, other, unrated})
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	if got := sums[sup]; got.Count != 3 || math.Abs(got.Average-11.0/3.0) > 1e-9 {
		t.Errorf("Summaries[sup]: got %+v", got)
	}
	if got := sums[other]; got.Count != 1 || got.Average != 3 {
		t.Errorf("Summaries[other]: got %+v", got)
	}
	if _, ok := sums[unrated]; ok {
		t.Error("unrated supplier should be absent")
	}

	one, err := store.SummaryFor(ctx, unrated)
	if err != nil || one.Count != 0 {
		t.Errorf("SummaryFor(unrated): got %+v, %v", one, err)
	}
}
