package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusActive, StatusOrdered, true},
		{StatusActive, StatusCancelled, true},
		{StatusOrdered, StatusOngoing, true},
		{StatusOngoing, StatusCompleted, true},

		{StatusActive, StatusOngoing, false},
		{StatusActive, StatusCompleted, false},
		{StatusOrdered, StatusCancelled, false},
		{StatusOrdered, StatusCompleted, false},
		{StatusOngoing, StatusCancelled, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusActive, false},
		{StatusCancelled, StatusOrdered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s == StatusCompleted || s == StatusCancelled
		if got := s.IsTerminal(); got != want {
			t.Errorf("%q.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, ok := ParseOrderStatus("ongoing"); !ok || s != StatusOngoing {
		t.Errorf("ParseOrderStatus(ongoing) = %q, %v", s, ok)
	}
	for _, raw := range []string{"", "Active", "pending", "deleted"} {
		if _, ok := ParseOrderStatus(raw); ok {
			t.Errorf("ParseOrderStatus(%q) accepted an unknown status", raw)
		}
	}
}

func TestGroupOrder_Allocation(t *testing.T) {
	creator := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()
	g := GroupOrder{
		CreatorID:       creator,
		TotalQuantity:   100,
		MaxParticipants: 2,
		Participants: []Participant{
			{UserID: creator, Quantity: 30},
			{UserID: vendorB, Quantity: 50},
		},
	}

	if got := g.Allocated(); got != 80 {
		t.Errorf("Allocated() = %d, want 80", got)
	}
	if got := g.Remaining(); got != 20 {
		t.Errorf("Remaining() = %d, want 20", got)
	}
	if !g.IsFull() {
		t.Error("expected IsFull with 2 of 2 participants")
	}
	if g.FullyAllocated() {
		t.Error("80/100 should not be fully allocated")
	}
	if !g.HasParticipant(vendorB) {
		t.Error("expected vendorB to be a participant")
	}
	if g.HasParticipant(primitive.NewObjectID()) {
		t.Error("unexpected participant")
	}
	if got := g.QuantityFor(vendorB); got != 50 {
		t.Errorf("QuantityFor(vendorB) = %d, want 50", got)
	}
	if !g.Involves(creator) {
		t.Error("creator should be involved")
	}
}

func TestGroupOrder_RemainingNeverNegative(t *testing.T) {
	g := GroupOrder{
		TotalQuantity: 10,
		Participants:  []Participant{{UserID: primitive.NewObjectID(), Quantity: 12}},
	}
	if got := g.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
	if !g.FullyAllocated() {
		t.Error("over-target pool should count as fully allocated")
	}
}

func TestGroupOrder_ReadByAndExpired(t *testing.T) {
	supplier := primitive.NewObjectID()
	now := time.Now().UTC()
	g := GroupOrder{
		Deadline:        now.Add(-time.Minute),
		ReadBySuppliers: []SupplierRead{{SupplierID: supplier, ReadAt: now}},
	}
	if !g.ReadBy(supplier) {
		t.Error("expected ReadBy for recorded supplier")
	}
	if g.ReadBy(primitive.NewObjectID()) {
		t.Error("unexpected ReadBy for other supplier")
	}
	if !g.Expired(now) {
		t.Error("deadline in the past should be expired")
	}
	g.Deadline = now.Add(time.Hour)
	if g.Expired(now) {
		t.Error("deadline in the future should not be expired")
	}
}
