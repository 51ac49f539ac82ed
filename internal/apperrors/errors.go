package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so callers can branch on the outcome.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalid
	KindUnauthorized
)

// Error is the error type returned by every service operation on failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a referenced entity that does not exist, or an operation
// scoped to a non-owner that must not reveal existence.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a duplicate action (double-follow, double-like, ...).
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Forbidden reports an authenticated caller that is not the owner.
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Invalid reports a malformed or self-referential request.
func Invalid(message string) error {
	return &Error{Kind: KindInvalid, Message: message}
}

// Unauthorized reports a missing or bad credential.
func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an unexpected store or infrastructure failure.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind of a service error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
