// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer maps them to
// status codes and machine-readable reason codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindInvalid indicates input the caller can fix (format, presence, duplicates).
	KindInvalid
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindUnavailable indicates the external store could not be reached.
	KindUnavailable
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Reason codes shared across the error contract.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInternal         = "INTERNAL"
)

// Error is a domain error with a typed Kind and a machine-readable Code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind, code and message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Invalid creates a user-fixable validation error with a specific reason code.
func Invalid(code, message string) *Error {
	return New(KindInvalid, code, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

// Unavailable creates a store unavailable error wrapping the store failure.
func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, CodeStoreUnavailable, message, err)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, CodeInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// GetCode extracts the reason code from an error.
func GetCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
