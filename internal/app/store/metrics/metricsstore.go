package metricsstore

import (
	"context"

	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Vendors        int64                        `json:"vendors"`
	Suppliers      int64                        `json:"suppliers"`
	Products       int64                        `json:"products"`
	Reviews        int64                        `json:"reviews"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
}

// FetchDashboardCounts returns the platform-wide totals.
// Tolerant: a failed count reads as 0 rather than failing the dashboard.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	out := Counts{OrdersByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses))}
	for _, s := range models.OrderStatuses {
		out.OrdersByStatus[s] = 0
	}

	users := db.Collection("users")
	if n, err := users.CountDocuments(ctx, bson.M{"role": models.RoleVendor}); err == nil {
		out.Vendors = n
	}
	if n, err := users.CountDocuments(ctx, bson.M{"role": models.RoleSupplier}); err == nil {
		out.Suppliers = n
	}
	if n, err := db.Collection("products").CountDocuments(ctx, bson.M{}); err == nil {
		out.Products = n
	}
	if n, err := db.Collection("reviews").CountDocuments(ctx, bson.M{}); err == nil {
		out.Reviews = n
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := db.Collection("group_orders").Aggregate(ctx, pipeline)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			Status models.OrderStatus `bson:"_id"`
			N      int64              `bson:"n"`
		}
		if cur.Decode(&row) == nil {
			out.OrdersByStatus[row.Status] = row.N
		}
	}
	return out
}
