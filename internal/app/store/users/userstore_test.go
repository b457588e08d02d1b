package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/indexes"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/sahayog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Vendor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Ravi   Kumar ",
		LoginID:  " Ravi.Kumar ",
		Role:     "Vendor",
	}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Ravi Kumar" {
		t.Errorf("FullName: got %q, want %q", created.FullName, "Ravi Kumar")
	}
	if created.LoginID != "ravi.kumar" {
		t.Errorf("LoginID: got %q, want %q", created.LoginID, "ravi.kumar")
	}
	if created.Role != models.RoleVendor {
		t.Errorf("Role: got %q, want %q", created.Role, models.RoleVendor)
	}
	if created.Status != models.UserActive {
		t.Errorf("Status: got %q, want %q", created.Status, models.UserActive)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret-pass" {
		t.Error("expected password to be hashed")
	}
	if !userstore.CheckPassword(&created, "s3cret-pass") {
		t.Error("CheckPassword should accept the original password")
	}
	if userstore.CheckPassword(&created, "wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name string
		user models.User
	}{
		{"bad role", models.User{FullName: "X", LoginID: "x", Role: "leader"}},
		{"bad status", models.User{FullName: "X", LoginID: "x", Role: "vendor", Status: "paused"}},
		{"no login", models.User{FullName: "X", Role: "vendor"}},
		{"no name", models.User{LoginID: "x", Role: "vendor"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tc.user, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_Create_DuplicateLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{FullName: "One", LoginID: "shared", Role: "vendor"}, ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{FullName: "Two", LoginID: "SHARED", Role: "supplier"}, "")
	if err != userstore.ErrDuplicateLoginID {
		t.Errorf("expected ErrDuplicateLoginID, got %v", err)
	}
}

func TestStore_GetByLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateVendor(ctx, "Meena", "meena")

	got, err := store.GetByLoginID(ctx, "  MEENA ")
	if err != nil {
		t.Fatalf("GetByLoginID failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID: got %v, want %v", got.ID, u.ID)
	}

	if _, err := store.GetByLoginID(ctx, "nobody"); err != userstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != userstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Suppliers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fixtures.CreateSupplier(ctx, "Bharat Wholesale", "bharat")
	a := fixtures.CreateSupplier(ctx, "Annapurna Foods", "annapurna")
	off := fixtures.CreateSupplier(ctx, "Closed Shop", "closed")
	fixtures.CreateVendor(ctx, "Vendor", "vendor1")

	if err := store.SetStatus(ctx, off.ID, models.UserDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	list, err := store.ListSuppliers(ctx)
	if err != nil {
		t.Fatalf("ListSuppliers failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListSuppliers: got %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("ListSuppliers order: got %s, %s", list[0].BusinessName, list[1].BusinessName)
	}

	if _, err := store.GetSupplier(ctx, a.ID); err != nil {
		t.Errorf("GetSupplier failed: %v", err)
	}
	if _, err := store.GetSupplier(ctx, off.ID); err != userstore.ErrNotFound {
		t.Errorf("GetSupplier(disabled): expected ErrNotFound, got %v", err)
	}

	counts, err := store.CountByRole(ctx)
	if err != nil {
		t.Fatalf("CountByRole failed: %v", err)
	}
	if counts[models.RoleSupplier] != 3 || counts[models.RoleVendor] != 1 || counts[models.RoleAdmin] != 0 {
		t.Errorf("CountByRole: got %v", counts)
	}
}

func TestStore_DisplayNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := fixtures.CreateSupplier(ctx, "Kisan Mart", "kisan")
	v := fixtures.CreateVendor(ctx, "Meena Devi", "meena")
	missing := primitive.NewObjectID()

	names, err := store.DisplayNames(ctx, []primitive.ObjectID{s.ID, v.ID, missing})
	if err != nil {
		t.Fatalf("DisplayNames failed: %v", err)
	}
	if names[s.ID] != "Kisan Mart" {
		t.Errorf("supplier name: got %q", names[s.ID])
	}
	if names[v.ID] != "Meena Devi" {
		t.Errorf("vendor name: got %q", names[v.ID])
	}
	if _, ok := names[missing]; ok {
		t.Error("unknown id should be absent")
	}

	empty, err := store.DisplayNames(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("DisplayNames(nil) = %v, %v", empty, err)
	}
}

func TestStore_SetStatus_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetStatus(ctx, primitive.NewObjectID(), "paused"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.UserDisabled); err != userstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := fixtures.CreateSupplier(ctx, "Kisan Mart", "kisan")

	su := fetcher.FetchUser(ctx, s.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser returned nil for an active user")
	}
	if su.Role != models.RoleSupplier || su.LoginID != "kisan" {
		t.Errorf("FetchUser: got %+v", su)
	}

	if fetcher.FetchUser(ctx, "not-hex") != nil {
		t.Error("FetchUser should return nil for a malformed id")
	}
	if fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("FetchUser should return nil for a missing user")
	}

	if err := store.SetStatus(ctx, s.ID, models.UserDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if fetcher.FetchUser(ctx, s.ID.Hex()) != nil {
		t.Error("FetchUser should return nil for a disabled user")
	}
}
