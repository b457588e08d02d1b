package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one line of a supplier's catalog. Read-only to the ordering flow.
type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SupplierID primitive.ObjectID `bson:"supplier_id" json:"supplier_id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	// Price is per Unit, in INR.
	Price float64 `bson:"price" json:"price"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Stock int     `bson:"stock" json:"stock"`

	// Delivery holds free-text delivery terms.
	Delivery string `bson:"delivery,omitempty" json:"delivery,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
