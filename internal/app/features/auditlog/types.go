// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/sahayog/internal/app/store/audit"
	"github.com/dalemusser/sahayog/internal/app/system/paging"
)

// item is one audit event with its user ids resolved to display names.
type item struct {
	audit.Event
	ActorName  string `json:"actor_name,omitempty"`
	TargetName string `json:"target_name,omitempty"`
}

type listResponse struct {
	Items  []item      `json:"items"`
	Paging paging.Meta `json:"paging"`
}

type historyResponse struct {
	OrderID string `json:"order_id"`
	Items   []item `json:"items"`
}

// dateLayout is the format of ?start_date= and ?end_date=.
const dateLayout = "2006-01-02"

// parseDay reads a YYYY-MM-DD filter as UTC midnight. endOfDay moves it to
// the last instant of that day so the range is inclusive.
func parseDay(s string, endOfDay bool) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

// validCategory reports whether c is a known category or empty.
func validCategory(c string) bool {
	switch c {
	case "", audit.CategoryAuth, audit.CategoryOrder, audit.CategoryReview:
		return true
	}
	return false
}
