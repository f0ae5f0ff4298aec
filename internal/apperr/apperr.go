// Package apperr classifies request failures so the HTTP boundary can pick a
// status code and a client-safe message without inspecting provider errors.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the failure classification of a request.
type Kind int

const (
	// KindService covers unexpected provider or filesystem failures.
	KindService Kind = iota
	// KindBadRequest means required fields were missing or invalid.
	KindBadRequest
	// KindUnauthorized means the bearer credential was absent, malformed or rejected.
	KindUnauthorized
	// KindNotFound means the requested entity does not exist in the store.
	KindNotFound
	// KindConflict means the action was already performed (e.g. duplicate enrollment).
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "service_error"
	}
}

// Status maps a kind to its HTTP status code. Conflict keeps the 400 that
// clients of the enrollment endpoint already expect.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err
// holds the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest builds a validation failure.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// Unauthorized builds an authentication failure.
func Unauthorized(msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: err}
}

// NotFound builds a missing-entity failure.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict builds a duplicate-action failure.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Service wraps an unexpected provider failure.
func Service(msg string, err error) *Error {
	return &Error{Kind: KindService, Message: msg, Err: err}
}

// KindOf reports the classification of err. Unclassified errors are
// service errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindService
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
