// Package httpx provides the shared HTTP client infrastructure: a typed
// error taxonomy, retry with exponential backoff, structured logging, and
// in-memory call metrics.
package httpx

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred.
type ErrorType int

const (
	ErrTypeValidation ErrorType = iota
	ErrTypeNotFound
	ErrTypeConflict
	ErrTypeAuthentication
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeTimeout
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeValidation:
		return "validation error"
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeConflict:
		return "conflict"
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error represents an HTTP client error with additional context.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Provider   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Type.String(), e.Message, e.StatusCode)
}

// Is implements error equality checking for errors.Is.
// Two errors match when their types match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable returns true if the error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// asError unwraps err to an *Error, or nil if it is not one.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsValidation reports whether err is a validation error: a malformed or
// semantically inconsistent request that the service rejected.
func IsValidation(err error) bool {
	return asError(err) != nil && asError(err).Type == ErrTypeValidation
}

// IsNotFound reports whether err indicates the referenced entity does not exist.
func IsNotFound(err error) bool {
	return asError(err) != nil && asError(err).Type == ErrTypeNotFound
}

// IsConflict reports whether err indicates a reference update rejected by a
// fast-forward-only policy.
func IsConflict(err error) bool {
	return asError(err) != nil && asError(err).Type == ErrTypeConflict
}

// NewValidationError creates a new validation error.
func NewValidationError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeValidation,
		Message:    message,
		StatusCode: 422,
		Retryable:  false,
		Provider:   provider,
	}
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeNotFound,
		Message:    message,
		StatusCode: 404,
		Retryable:  false,
		Provider:   provider,
	}
}

// NewConflictError creates a new conflict error.
func NewConflictError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeConflict,
		Message:    message,
		StatusCode: 409,
		Retryable:  false,
		Provider:   provider,
	}
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeAuthentication,
		Message:    message,
		StatusCode: 401,
		Retryable:  false,
		Provider:   provider,
	}
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeRateLimit,
		Message:    message,
		StatusCode: 429,
		Retryable:  true,
		Provider:   provider,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(provider, message string) *Error {
	return &Error{
		Type:       ErrTypeServiceUnavailable,
		Message:    message,
		StatusCode: 503,
		Retryable:  true,
		Provider:   provider,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(provider, message string) *Error {
	return &Error{
		Type:      ErrTypeTimeout,
		Message:   message,
		Retryable: true,
		Provider:  provider,
	}
}
