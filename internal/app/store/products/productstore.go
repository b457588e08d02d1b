// Package productstore reads supplier catalogs. Catalog maintenance happens
// outside this service; the ordering flow only browses.
package productstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/dalemusser/sahayog/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no product matches.
var ErrNotFound = errors.New("product not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// Filter narrows List. Zero values mean no constraint.
type Filter struct {
	SupplierID *primitive.ObjectID
	// Name matches a case- and diacritic-insensitive prefix of the product name.
	Name  string
	Limit int64
}

// List returns products ordered by name.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Product, error) {
	filter := bson.M{}
	if f.SupplierID != nil {
		filter["supplier_id"] = *f.SupplierID
	}
	if q := text.Fold(f.Name); q != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return s.find(ctx, filter, opts)
}

// ListBySupplier returns one supplier's catalog ordered by name.
func (s *Store) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]models.Product, error) {
	return s.List(ctx, Filter{SupplierID: &supplierID})
}

// GroupBySupplier loads the catalogs of several suppliers in one query.
// Every requested supplier has an entry, possibly empty.
func (s *Store) GroupBySupplier(ctx context.Context, supplierIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.Product, error) {
	out := make(map[primitive.ObjectID][]models.Product, len(supplierIDs))
	for _, id := range supplierIDs {
		out[id] = []models.Product{}
	}
	if len(supplierIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	products, err := s.find(ctx, bson.M{"supplier_id": bson.M{"$in": supplierIDs}}, opts)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.SupplierID] = append(out[p.SupplierID], p)
	}
	return out, nil
}

// GetByID loads one product.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

// Count returns the catalog size.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
