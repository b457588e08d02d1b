// Package formutil binds JSON request bodies into input structs.
//
// Bind decodes the body, bounded to limits.MaxJSONBody, and runs the struct's
// validate tags through inputval. Failures come back as *Error carrying the
// HTTP status and the message to show the caller:
//
//	var in reviewInput
//	if err := formutil.Bind(w, r, &in); err != nil {
//		errorsfeature.WriteMessage(w, formutil.StatusOf(err), err.Error())
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/sahayog/internal/app/system/inputval"
	"github.com/dalemusser/sahayog/internal/app/system/limits"
)

// Error is a body the caller must fix.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Decode reads the JSON body into v. An empty body leaves v at its zero value
// so later validation can name the missing fields.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return &Error{Status: http.StatusRequestEntityTooLarge, Message: "Request body too large."}
	}
	return &Error{Status: http.StatusBadRequest, Message: "Invalid JSON body."}
}

// Bind decodes the body into v and validates it. Only the first validation
// message is reported.
func Bind(w http.ResponseWriter, r *http.Request, v any) error {
	if err := Decode(w, r, v); err != nil {
		return err
	}
	if res := inputval.Validate(v); res.HasErrors() {
		return &Error{Status: http.StatusBadRequest, Message: res.First()}
	}
	return nil
}

// StatusOf returns the status carried by a *Error, or 400.
func StatusOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return http.StatusBadRequest
}
