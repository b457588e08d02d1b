// internal/app/policy/orderpolicy/orderpolicy.go
package orderpolicy

import (
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanOpen reports whether p may start a group order. Only vendors buy.
func CanOpen(p authz.Principal) bool {
	return p.IsVendor()
}

// CanJoin reports whether p may commit quantity to someone else's order.
func CanJoin(p authz.Principal) bool {
	return p.IsVendor()
}

// IsCreator reports whether p opened the order. Placement and cancellation
// are reserved for the creator.
func IsCreator(p authz.Principal, g *models.GroupOrder) bool {
	return p.ID != primitive.NilObjectID && g.CreatorID == p.ID
}

// CanFulfil reports whether p may accept, complete or acknowledge orders.
func CanFulfil(p authz.Principal) bool {
	return p.IsSupplier()
}

// IsAcceptingSupplier reports whether p is the supplier who accepted g.
func IsAcceptingSupplier(p authz.Principal, g *models.GroupOrder) bool {
	return g.SupplierID != nil && *g.SupplierID == p.ID
}

// CanViewAll reports whether p may list every order regardless of status.
func CanViewAll(p authz.Principal) bool {
	return p.IsAdmin()
}

// ReviewRefusal explains why p may not review supplierID for g, or returns ""
// when the review is allowed:
//   - the order must be completed
//   - supplierID must be the supplier who fulfilled it
//   - p must be a vendor holding an allocation in it
func ReviewRefusal(p authz.Principal, g *models.GroupOrder, supplierID primitive.ObjectID) string {
	switch {
	case !p.IsVendor():
		return "Only vendors can submit reviews"
	case g.Status != models.StatusCompleted:
		return "Reviews can only be submitted for completed orders"
	case g.SupplierID == nil || *g.SupplierID != supplierID:
		return "Supplier did not fulfil this order"
	case !g.HasParticipant(p.ID):
		return "Only participants can review this order"
	}
	return ""
}
