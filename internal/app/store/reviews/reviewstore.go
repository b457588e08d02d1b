// Package reviewstore persists vendor reviews of suppliers. A vendor may
// review a given order once; the unique (order_id, vendor_id) index enforces it.
package reviewstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sahayog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicate is returned when the vendor already reviewed the order.
	ErrDuplicate = errors.New("review already submitted for this order")
	// ErrBadRating is returned for ratings outside models.MinRating..MaxRating.
	ErrBadRating = errors.New("rating out of range")
)

// Summary aggregates the ratings a supplier received.
type Summary struct {
	Count   int64   `bson:"count" json:"count"`
	Average float64 `bson:"average" json:"average"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

// Create inserts r, assigning its id and timestamp.
func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	if r.Rating < models.MinRating || r.Rating > models.MaxRating {
		return models.Review{}, ErrBadRating
	}
	r.ID = primitive.NewObjectID()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Review{}, ErrDuplicate
		}
		return models.Review{}, err
	}
	return r, nil
}

// Exists reports whether vendorID already reviewed orderID.
func (s *Store) Exists(ctx context.Context, orderID, vendorID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"order_id": orderID, "vendor_id": vendorID},
		options.Count().SetLimit(1))
	return n > 0, err
}

// ListBySupplier returns the supplier's reviews, newest first.
func (s *Store) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, limit int64) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"supplier_id": supplierID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summaries returns rating summaries keyed by supplier. Suppliers without
// reviews are absent from the map.
func (s *Store) Summaries(ctx context.Context, supplierIDs []primitive.ObjectID) (map[primitive.ObjectID]Summary, error) {
	out := make(map[primitive.ObjectID]Summary, len(supplierIDs))
	if len(supplierIDs) == 0 {
		return out, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"supplier_id": bson.M{"$in": supplierIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$supplier_id",
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$rating"},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			SupplierID primitive.ObjectID `bson:"_id"`
			Summary    `bson:",inline"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.SupplierID] = row.Summary
	}
	return out, cur.Err()
}

// SummaryFor returns one supplier's rating summary; zero when unreviewed.
func (s *Store) SummaryFor(ctx context.Context, supplierID primitive.ObjectID) (Summary, error) {
	m, err := s.Summaries(ctx, []primitive.ObjectID{supplierID})
	if err != nil {
		return Summary{}, err
	}
	return m[supplierID], nil
}

// Count returns the number of reviews.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
