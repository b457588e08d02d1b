package orderpolicy_test

import (
	"testing"

	"github.com/dalemusser/sahayog/internal/app/policy/orderpolicy"
	"github.com/dalemusser/sahayog/internal/app/system/authz"
	"github.com/dalemusser/sahayog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func principal(role string) authz.Principal {
	return authz.Principal{ID: primitive.NewObjectID(), Role: role}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		role                      string
		open, join, fulfil, admin bool
	}{
		{models.RoleVendor, true, true, false, false},
		{models.RoleSupplier, false, false, true, false},
		{models.RoleAdmin, false, false, false, true},
		{"system", false, false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			p := principal(tc.role)
			if got := orderpolicy.CanOpen(p); got != tc.open {
				t.Errorf("CanOpen = %v, want %v", got, tc.open)
			}
			if got := orderpolicy.CanJoin(p); got != tc.join {
				t.Errorf("CanJoin = %v, want %v", got, tc.join)
			}
			if got := orderpolicy.CanFulfil(p); got != tc.fulfil {
				t.Errorf("CanFulfil = %v, want %v", got, tc.fulfil)
			}
			if got := orderpolicy.CanViewAll(p); got != tc.admin {
				t.Errorf("CanViewAll = %v, want %v", got, tc.admin)
			}
		})
	}
}

func TestIsCreator(t *testing.T) {
	creator := principal(models.RoleVendor)
	g := &models.GroupOrder{CreatorID: creator.ID}

	if !orderpolicy.IsCreator(creator, g) {
		t.Error("creator should be recognised")
	}
	if orderpolicy.IsCreator(principal(models.RoleVendor), g) {
		t.Error("other vendor must not be the creator")
	}
	if orderpolicy.IsCreator(authz.System, &models.GroupOrder{}) {
		t.Error("nil principal must never match a zero creator id")
	}
}

func TestIsAcceptingSupplier(t *testing.T) {
	s := principal(models.RoleSupplier)
	if orderpolicy.IsAcceptingSupplier(s, &models.GroupOrder{}) {
		t.Error("unassigned order has no accepting supplier")
	}
	if !orderpolicy.IsAcceptingSupplier(s, &models.GroupOrder{SupplierID: &s.ID}) {
		t.Error("assigned supplier should match")
	}
	other := primitive.NewObjectID()
	if orderpolicy.IsAcceptingSupplier(s, &models.GroupOrder{SupplierID: &other}) {
		t.Error("different supplier must not match")
	}
}

func TestReviewRefusal(t *testing.T) {
	vendor := principal(models.RoleVendor)
	supplierID := primitive.NewObjectID()
	completed := func() *models.GroupOrder {
		return &models.GroupOrder{
			Status:       models.StatusCompleted,
			SupplierID:   &supplierID,
			Participants: []models.Participant{{UserID: vendor.ID, Quantity: 5}},
		}
	}

	tests := []struct {
		name     string
		p        authz.Principal
		g        *models.GroupOrder
		supplier primitive.ObjectID
		want     string
	}{
		{"allowed", vendor, completed(), supplierID, ""},
		{"supplier caller", principal(models.RoleSupplier), completed(), supplierID, "Only vendors can submit reviews"},
		{"not completed", vendor, func() *models.GroupOrder {
			g := completed()
			g.Status = models.StatusOngoing
			return g
		}(), supplierID, "Reviews can only be submitted for completed orders"},
		{"wrong supplier", vendor, completed(), primitive.NewObjectID(), "Supplier did not fulfil this order"},
		{"non participant", principal(models.RoleVendor), completed(), supplierID, "Only participants can review this order"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := orderpolicy.ReviewRefusal(tc.p, tc.g, tc.supplier); got != tc.want {
				t.Errorf("ReviewRefusal = %q, want %q", got, tc.want)
			}
		})
	}
}
