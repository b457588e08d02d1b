// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/dalemusser/sahayog/internal/app/system/orderflow"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Message is the error body every endpoint returns.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Message{Message: msg})
}

// StatusFor maps an engine error kind to its HTTP status. Non-engine errors
// are 500.
func StatusFor(err error) int {
	kind, ok := orderflow.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case orderflow.KindValidation, orderflow.KindCapacity:
		return http.StatusBadRequest
	case orderflow.KindState:
		return http.StatusConflict
	case orderflow.KindNotFound:
		return http.StatusNotFound
	case orderflow.KindAuthorization:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ErrorLogger writes error responses and logs the ones the caller cannot fix.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err with request context and answers 500 with an
// opaque message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	e.Log.Error(msg, fields...)
	WriteMessage(w, http.StatusInternalServerError, "server error")
}

// LogBadRequest logs a malformed request at Warn and answers 400 with
// userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteMessage(w, http.StatusBadRequest, userMsg)
}

// Engine answers an orderflow result. Business refusals carry their own
// message; anything else is logged as a server error.
func (e *ErrorLogger) Engine(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		e.LogServerError(w, r, op+" failed", err)
		return
	}
	e.Log.Info("request refused",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("reason", err.Error()))
	WriteMessage(w, status, err.Error())
}
