package orderflow

import (
	"errors"
	"fmt"
)

// Kind classifies a refused operation.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindCapacity      Kind = "capacity"
	KindState         Kind = "state"
)

// Error is a business-rule refusal. The operation made no change.
// Anything that is not an *Error is an internal failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind when target carries no message,
// so errors.Is(err, ErrCapacity) works for every capacity refusal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Sentinels for errors.Is checks by kind.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrCapacity      = &Error{Kind: KindCapacity}
	ErrState         = &Error{Kind: KindState}
)

// KindOf reports the kind of a business error, or false for internal errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func capacityf(format string, args ...any) *Error {
	return &Error{Kind: KindCapacity, Message: fmt.Sprintf(format, args...)}
}

func stateError(msg string) *Error {
	return &Error{Kind: KindState, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func notFound() *Error {
	return &Error{Kind: KindNotFound, Message: "Group order not found"}
}
