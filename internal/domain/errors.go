package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input. Raised before any network call;
	// callers must correct the input before retrying.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates there is no authenticated user
	UnauthorizedError struct {
		Message string
	}

	// ConfigurationError indicates a backend client was not configured
	// (missing credentials or environment). Fatal for the session.
	ConfigurationError struct {
		Setting string
		Message string
	}
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConfiguration = errors.New("not configured")
	ErrTransient     = errors.New("transient failure")
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Setting, e.Message)
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int      { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int    { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int  { return http.StatusUnauthorized }
func (e *ConfigurationError) StatusCode() int { return http.StatusServiceUnavailable }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool      { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool    { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool  { return target == ErrUnauthorized }
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// TransientError wraps a failed network or storage call (upload, delete,
// fetch, completion). Op names the operation that failed.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against ErrTransient
func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// StatusCode implements the HTTPError interface
func (e *TransientError) StatusCode() int { return http.StatusBadGateway }

// Transient wraps err as a TransientError. Returns nil when err is nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
