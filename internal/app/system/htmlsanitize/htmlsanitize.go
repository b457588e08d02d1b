// Package htmlsanitize strips markup from free text submitted by vendors
// and suppliers (order items, delivery areas, review comments).
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every HTML element, drops script and style bodies, and
// returns the remaining text unescaped and trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsClean reports whether s survives PlainText unchanged apart from
// surrounding whitespace.
func IsClean(s string) bool {
	return PlainText(s) == strings.TrimSpace(s)
}
