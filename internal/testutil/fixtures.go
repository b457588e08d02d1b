package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given role. The login id doubles
// as the email address.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		Email:      loginID,
		Role:       role,
		Status:     models.UserActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUserWithPassword inserts a user whose password hash matches password.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, fullName, loginID, role, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		LoginID:      loginID,
		LoginIDCI:    text.Fold(loginID),
		Email:        loginID,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateVendor creates a test vendor.
func (f *Fixtures) CreateVendor(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleVendor)
}

// CreateSupplier creates a test supplier with a business profile.
func (f *Fixtures) CreateSupplier(ctx context.Context, businessName, loginID string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, businessName+" Owner", loginID, models.RoleSupplier)
	u.BusinessName = businessName
	u.Area = "Test Market"
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{"business_name": u.BusinessName, "area": u.Area},
	})
	if err != nil {
		f.t.Fatalf("failed to set supplier profile: %v", err)
	}
	return u
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleAdmin)
}

// CreateProduct inserts a catalog entry for the supplier.
func (f *Fixtures) CreateProduct(ctx context.Context, supplierID primitive.ObjectID, name string, price float64) models.Product {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Product{
		ID:         primitive.NewObjectID(),
		SupplierID: supplierID,
		Name:       name,
		NameCI:     text.Fold(name),
		Price:      price,
		Unit:       "kg",
		Stock:      100,
		Delivery:   "Next day",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("products").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test product: %v", err)
	}
	return p
}

// CreateGroupOrder inserts a group order directly, bypassing the engine, with
// the creator as participant zero. Use it to stage orders in any status.
func (f *Fixtures) CreateGroupOrder(ctx context.Context, creatorID primitive.ObjectID, total, creatorQty int, status models.OrderStatus) models.GroupOrder {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.GroupOrder{
		ID:              primitive.NewObjectID(),
		CreatorID:       creatorID,
		Items:           "Onions",
		TotalQuantity:   total,
		CreatorQuantity: creatorQty,
		Deadline:        now.Add(48 * time.Hour),
		DeliveryArea:    "Test Market",
		MaxParticipants: models.DefaultMaxParticipants,
		Participants:    []models.Participant{{UserID: creatorID, Quantity: creatorQty, JoinedAt: now}},
		Status:          status,
		OrderType:       models.OrderTypeGroup,
		ReadBySuppliers: []models.SupplierRead{},
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}

	if _, err := f.db.Collection("group_orders").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group order: %v", err)
	}
	return g
}
