// internal/app/store/grouporders/grouporderstore.go
package grouporderstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no group order has the requested id.
	ErrNotFound = errors.New("group order not found")
	// ErrConflict is returned when a conditional write lost a race: the
	// order's version or status no longer matches what the caller read.
	ErrConflict = errors.New("group order was modified concurrently")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_orders")}
}

// Change describes one status transition applied by Transition.
// Nil pointer fields are left untouched.
type Change struct {
	From       models.OrderStatus
	To         models.OrderStatus
	SupplierID *primitive.ObjectID
	OrderedAt  *time.Time
	AcceptedAt *time.Time
	At         time.Time
}

// Create inserts a new group order. ID, version and timestamps are assigned
// here; CreatedAt is kept if the caller already set it.
func (s *Store) Create(ctx context.Context, g models.GroupOrder) (models.GroupOrder, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = g.CreatedAt
	g.Version = 1
	if g.ReadBySuppliers == nil {
		g.ReadBySuppliers = []models.SupplierRead{}
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.GroupOrder{}, err
	}
	return g, nil
}

// GetByID loads a group order. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupOrder, error) {
	var g models.GroupOrder
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.GroupOrder{}, ErrNotFound
		}
		return models.GroupOrder{}, err
	}
	return g, nil
}

// AddParticipant appends p if the order is still active and still at the
// version the caller evaluated. Returns the updated order, or ErrConflict
// when the write lost a race (ErrNotFound if the order vanished).
func (s *Store) AddParticipant(ctx context.Context, id primitive.ObjectID, version int64, p models.Participant) (models.GroupOrder, error) {
	filter := bson.M{
		"_id":     id,
		"version": version,
		"status":  models.StatusActive,
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updated_at": p.JoinedAt},
		"$inc":  bson.M{"version": 1},
	}
	return s.conditionalUpdate(ctx, id, filter, update)
}

// Transition moves the order from ch.From to ch.To, conditioned on version.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, version int64, ch Change) (models.GroupOrder, error) {
	filter := bson.M{
		"_id":     id,
		"version": version,
		"status":  ch.From,
	}
	set := bson.M{
		"status":     ch.To,
		"updated_at": ch.At,
	}
	if ch.SupplierID != nil {
		set["supplier_id"] = *ch.SupplierID
	}
	if ch.OrderedAt != nil {
		set["ordered_at"] = *ch.OrderedAt
	}
	if ch.AcceptedAt != nil {
		set["accepted_at"] = *ch.AcceptedAt
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	return s.conditionalUpdate(ctx, id, filter, update)
}

// MarkRead records that a supplier has seen the order. Repeat calls leave a
// single entry. Read receipts do not bump the version.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID, read models.SupplierRead) (models.GroupOrder, error) {
	filter := bson.M{
		"_id":                           id,
		"read_by_suppliers.supplier_id": bson.M{"$ne": read.SupplierID},
	}
	update := bson.M{"$push": bson.M{"read_by_suppliers": read}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var g models.GroupOrder
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupOrder{}, err
	}
	// Either already read or missing; GetByID tells which.
	return s.GetByID(ctx, id)
}

func (s *Store) conditionalUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (models.GroupOrder, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.GroupOrder
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupOrder{}, err
	}
	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return models.GroupOrder{}, cerr
	}
	if n == 0 {
		return models.GroupOrder{}, ErrNotFound
	}
	return models.GroupOrder{}, ErrConflict
}
