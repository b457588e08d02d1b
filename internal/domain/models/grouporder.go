// internal/domain/models/grouporder.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxParticipants caps distinct participants when the creator does not
// choose a limit.
const DefaultMaxParticipants = 10

// GroupOrder is a vendor-initiated pool of quantity requests aimed at one
// bulk purchase.
//
// NOTE:
//   - The creator is always Participants[0], added at creation with
//     CreatorQuantity.
//   - Version is bumped by every mutation; conditional writes filter on it.
//   - Orders are never deleted. Cancelled and completed are terminal statuses.
type GroupOrder struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	CreatorID       primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	Items           string             `bson:"items" json:"items"`
	TotalQuantity   int                `bson:"total_quantity" json:"total_quantity"`
	CreatorQuantity int                `bson:"creator_quantity" json:"creator_quantity"`
	Deadline        time.Time          `bson:"deadline" json:"deadline"`
	DeliveryArea    string             `bson:"delivery_area" json:"delivery_area"`
	MaxParticipants int                `bson:"max_participants" json:"max_participants"`
	Participants    []Participant      `bson:"participants" json:"participants"`

	Status    OrderStatus `bson:"status" json:"status"`
	OrderType OrderType   `bson:"order_type" json:"order_type"`

	SupplierID      *primitive.ObjectID `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	ReadBySuppliers []SupplierRead      `bson:"read_by_suppliers" json:"read_by_suppliers"`

	OrderedAt  *time.Time `bson:"ordered_at,omitempty" json:"ordered_at,omitempty"`
	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`

	Version int64 `bson:"version" json:"version"`
}

// Allocated is the sum of all committed participant quantities.
func (g *GroupOrder) Allocated() int {
	total := 0
	for _, p := range g.Participants {
		total += p.Quantity
	}
	return total
}

// Remaining is the capacity still open for new participants. Never negative.
func (g *GroupOrder) Remaining() int {
	r := g.TotalQuantity - g.Allocated()
	if r < 0 {
		return 0
	}
	return r
}

// IsFull reports whether the participant cap has been reached.
func (g *GroupOrder) IsFull() bool {
	return len(g.Participants) >= g.MaxParticipants
}

// FullyAllocated reports whether the pool has reached its bulk target.
func (g *GroupOrder) FullyAllocated() bool {
	return g.Allocated() >= g.TotalQuantity
}

// HasParticipant reports whether the vendor already holds an allocation.
func (g *GroupOrder) HasParticipant(vendorID primitive.ObjectID) bool {
	for _, p := range g.Participants {
		if p.UserID == vendorID {
			return true
		}
	}
	return false
}

// QuantityFor returns the vendor's committed quantity, or 0.
func (g *GroupOrder) QuantityFor(vendorID primitive.ObjectID) int {
	for _, p := range g.Participants {
		if p.UserID == vendorID {
			return p.Quantity
		}
	}
	return 0
}

// Involves reports whether the vendor created or participates in the order.
func (g *GroupOrder) Involves(vendorID primitive.ObjectID) bool {
	return g.CreatorID == vendorID || g.HasParticipant(vendorID)
}

// ReadBy reports whether the supplier has acknowledged the order.
func (g *GroupOrder) ReadBy(supplierID primitive.ObjectID) bool {
	for _, rd := range g.ReadBySuppliers {
		if rd.SupplierID == supplierID {
			return true
		}
	}
	return false
}

// Expired reports whether the join deadline has passed at the given instant.
func (g *GroupOrder) Expired(now time.Time) bool {
	return !g.Deadline.After(now)
}

// SupplierRead records a supplier acknowledging a placed order. Advisory only.
type SupplierRead struct {
	SupplierID primitive.ObjectID `bson:"supplier_id" json:"supplier_id"`
	ReadAt     time.Time          `bson:"read_at" json:"read_at"`
}
