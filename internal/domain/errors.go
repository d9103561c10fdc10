package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. cooking time below one minute, the same ingredient listed twice).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrReferenceNotFound is returned when a write payload points at a tag or
// ingredient that does not exist. Handlers should map this to HTTP 400.
var ErrReferenceNotFound = errors.New("reference not found")

// ErrForbidden is returned when an authenticated user may not modify the
// target resource. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when an operation requires a signed-in user
// or the supplied credentials are wrong. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when a fact row (favorite, cart entry,
// subscription) or a unique catalog value already exists.
var ErrConflict = errors.New("conflict")

// ErrSelfSubscription is returned when a user tries to subscribe to themselves.
// It wraps ErrConflict so callers that only care about the conflict class still match.
var ErrSelfSubscription = fmt.Errorf("%w: cannot subscribe to yourself", ErrConflict)

// ValidationError names the offending input field. It unwraps to ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message is the client-facing text without the sentinel prefix.
func (e *ValidationError) Message() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NewValidationError is shorthand for &ValidationError{Field: field, Reason: reason}.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferenceError reports a dangling foreign id in a write payload.
// Kind is "tag" or "ingredient". It unwraps to ErrReferenceNotFound.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrReferenceNotFound, e.Kind, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferenceNotFound }

// Message is the client-facing text without the sentinel prefix.
func (e *ReferenceError) Message() string {
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.ID)
}
