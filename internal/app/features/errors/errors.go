// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
)

// Handler serves the JSON fallbacks for unmatched routes.
// No DB needed.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers any unmatched path.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteMessage(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed answers a known path hit with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}
