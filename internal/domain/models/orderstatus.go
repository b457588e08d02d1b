// internal/domain/models/orderstatus.go
package models

// OrderStatus is the lifecycle state of a group order.
//
// Values are stored verbatim in group_orders.status and appear in the JSON API.
type OrderStatus string

const (
	StatusActive    OrderStatus = "active"
	StatusOrdered   OrderStatus = "ordered"
	StatusOngoing   OrderStatus = "ongoing"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses is the full set of lifecycle states, in lifecycle order.
// Schema enums are built from this slice.
var OrderStatuses = []OrderStatus{
	StatusActive,
	StatusOrdered,
	StatusOngoing,
	StatusCompleted,
	StatusCancelled,
}

// transitions is the single table of allowed lifecycle moves.
// Anything not listed here is refused, including every move out of
// completed or cancelled.
var transitions = map[OrderStatus][]OrderStatus{
	StatusActive:  {StatusOrdered, StatusCancelled},
	StatusOrdered: {StatusOngoing},
	StatusOngoing: {StatusCompleted},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a raw string to an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(raw)
	return s, s.Valid()
}

// OrderType distinguishes pooled orders from single-vendor ones.
type OrderType string

const (
	OrderTypeGroup      OrderType = "group_order"
	OrderTypeIndividual OrderType = "individual"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderTypeGroup || t == OrderTypeIndividual
}
