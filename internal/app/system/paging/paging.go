// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in a paged JSON list.
const PageSize = 50

// MaxPageSize caps ?limit= so one request cannot pull a whole collection.
const MaxPageSize = 200

// Page is a 1-based offset page.
type Page struct {
	Number int
	Size   int
}

// Parse reads ?page= and ?limit=. Missing or invalid values fall back to
// page 1 and defaultSize; limit is clamped to MaxPageSize.
func Parse(r *http.Request, defaultSize int) Page {
	if defaultSize <= 0 {
		defaultSize = PageSize
	}
	return Page{
		Number: positive(query.Get(r, "page"), 1),
		Size:   min(positive(query.Get(r, "limit"), defaultSize), MaxPageSize),
	}
}

func positive(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Offset is the number of rows to skip, as Mongo's SetSkip wants it.
func (p Page) Offset() int64 { return int64((p.Number - 1) * p.Size) }

// Limit is the page size as Mongo's SetLimit wants it.
func (p Page) Limit() int64 { return int64(p.Size) }

// Meta describes a page of a list of total rows.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// Meta computes the paging summary for total rows. An empty list has one
// (empty) page.
func (p Page) Meta(total int64) Meta {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    p.Number > 1,
		HasNext:    p.Number < pages,
	}
}
