package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a vendor's feedback on a supplier for one completed order.
// At most one review exists per (order, vendor).
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    primitive.ObjectID `bson:"order_id" json:"order_id"`
	SupplierID primitive.ObjectID `bson:"supplier_id" json:"supplier_id"`
	VendorID   primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
