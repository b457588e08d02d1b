// internal/app/store/grouporders/queries.go
package grouporderstore

import (
	"context"
	"time"

	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// involving matches orders the vendor created or holds an allocation in.
func involving(vendorID primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"creator_id": vendorID},
		{"participants.user_id": vendorID},
	}}
}

var (
	byDeadline   = bson.D{{Key: "deadline", Value: 1}, {Key: "_id", Value: 1}}
	newestFirst  = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	latestUpdate = bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
)

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.GroupOrder, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.GroupOrder{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListJoinable returns active orders whose deadline is still ahead, soonest
// deadline first. A non-nil creatorID narrows to that creator.
func (s *Store) ListJoinable(ctx context.Context, now time.Time, creatorID *primitive.ObjectID) ([]models.GroupOrder, error) {
	filter := bson.M{
		"status":   models.StatusActive,
		"deadline": bson.M{"$gt": now},
	}
	if creatorID != nil {
		filter["creator_id"] = *creatorID
	}
	return s.find(ctx, filter, options.Find().SetSort(byDeadline))
}

// ListAvailable returns active, unexpired orders the vendor neither created
// nor joined.
func (s *Store) ListAvailable(ctx context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error) {
	filter := bson.M{
		"status":               models.StatusActive,
		"deadline":             bson.M{"$gt": now},
		"creator_id":           bson.M{"$ne": vendorID},
		"participants.user_id": bson.M{"$ne": vendorID},
	}
	return s.find(ctx, filter, options.Find().SetSort(byDeadline))
}

// ListMine returns active, unexpired orders the vendor created or joined.
func (s *Store) ListMine(ctx context.Context, vendorID primitive.ObjectID, now time.Time) ([]models.GroupOrder, error) {
	filter := involving(vendorID)
	filter["status"] = models.StatusActive
	filter["deadline"] = bson.M{"$gt": now}
	return s.find(ctx, filter, options.Find().SetSort(byDeadline))
}

// ListByStatus returns every order in the given status, most recently
// updated first.
func (s *Store) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.GroupOrder, error) {
	return s.find(ctx, bson.M{"status": status}, options.Find().SetSort(latestUpdate))
}

// ListBySupplier returns orders accepted by the supplier in any of statuses.
func (s *Store) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, statuses ...models.OrderStatus) ([]models.GroupOrder, error) {
	filter := bson.M{"supplier_id": supplierID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.find(ctx, filter, options.Find().SetSort(latestUpdate))
}

// ListByCreator returns every order the vendor opened, newest first.
func (s *Store) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.GroupOrder, error) {
	return s.find(ctx, bson.M{"creator_id": creatorID}, options.Find().SetSort(newestFirst))
}

// ListAll returns every order, newest first. Administrative use only.
func (s *Store) ListAll(ctx context.Context) ([]models.GroupOrder, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// CountInvolving counts orders in status that the vendor created or joined.
func (s *Store) CountInvolving(ctx context.Context, vendorID primitive.ObjectID, status models.OrderStatus) (int64, error) {
	filter := involving(vendorID)
	filter["status"] = status
	return s.c.CountDocuments(ctx, filter)
}

// ListCompletedSince returns completed orders involving the vendor whose
// completion (updated_at) is at or after since.
func (s *Store) ListCompletedSince(ctx context.Context, vendorID primitive.ObjectID, since time.Time) ([]models.GroupOrder, error) {
	filter := involving(vendorID)
	filter["status"] = models.StatusCompleted
	filter["updated_at"] = bson.M{"$gte": since}
	return s.find(ctx, filter, options.Find().SetSort(latestUpdate))
}

// ListRecentInvolving returns the vendor's most recently created orders in
// any status except cancelled.
func (s *Store) ListRecentInvolving(ctx context.Context, vendorID primitive.ObjectID, limit int64) ([]models.GroupOrder, error) {
	filter := involving(vendorID)
	filter["status"] = bson.M{"$ne": models.StatusCancelled}
	return s.find(ctx, filter, options.Find().SetSort(newestFirst).SetLimit(limit))
}

// ListExpiredActive returns active orders whose deadline has passed, oldest
// deadline first, capped at limit.
func (s *Store) ListExpiredActive(ctx context.Context, now time.Time, limit int64) ([]models.GroupOrder, error) {
	filter := bson.M{
		"status":   models.StatusActive,
		"deadline": bson.M{"$lte": now},
	}
	return s.find(ctx, filter, options.Find().SetSort(byDeadline).SetLimit(limit))
}
