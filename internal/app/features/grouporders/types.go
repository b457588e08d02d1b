// internal/app/features/grouporders/types.go
package grouporders

import (
	"strings"
	"time"
)

// createInput is the body of POST /api/grouporders. Presence and sign of the
// core fields are left to the engine so the caller gets its wording; the
// rules here only bound sizes and enumerations.
type createInput struct {
	Items           string `json:"items" validate:"max=500" label:"Items"`
	TotalQuantity   int    `json:"total_quantity" validate:"lte=1000000" label:"Total quantity"`
	CreatorQuantity int    `json:"creator_quantity" validate:"lte=1000000" label:"Creator quantity"`
	Deadline        string `json:"deadline" validate:"max=40" label:"Deadline"`
	DeliveryArea    string `json:"delivery_area" validate:"max=200" label:"Delivery area"`
	MaxParticipants int    `json:"max_participants" validate:"gte=0,lte=1000" label:"Max participants"`
	OrderType       string `json:"order_type" validate:"ordertype" label:"Order type"`
}

type joinInput struct {
	Quantity int `json:"quantity" validate:"lte=1000000" label:"Quantity"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,max=20" label:"Status"`
}

// deadlineLayouts are tried in order. A bare date means midnight UTC.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDeadline accepts RFC 3339 timestamps, HTML datetime-local values and
// bare dates. Empty input yields the zero time.
func parseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
