package shipping

import (
	"errors"
	"fmt"
)

// Kind classifies shipping errors for the request boundary.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindInvalidAddress   Kind = "invalid_address"
	KindRouteUnavailable Kind = "route_unavailable"
	KindAuthRequired     Kind = "auth_required"
)

// Error is a classified shipping error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Sentinel errors, one per Kind.
var (
	// ErrValidation indicates missing or malformed caller input.
	ErrValidation = NewError(KindValidation, "invalid request")

	// ErrNotFound indicates a missing row or one owned by another account.
	ErrNotFound = NewError(KindNotFound, "not found")

	// ErrInvalidAddress indicates an address without usable coordinates.
	ErrInvalidAddress = NewError(KindInvalidAddress, "invalid address")

	// ErrRouteUnavailable indicates the route provider failed or timed out.
	ErrRouteUnavailable = NewError(KindRouteUnavailable, "could not calculate route")

	// ErrAuthRequired indicates the caller is not authenticated.
	ErrAuthRequired = NewError(KindAuthRequired, "authentication required")
)

// KindOf returns the Kind of err, or "" when err is not a shipping error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
