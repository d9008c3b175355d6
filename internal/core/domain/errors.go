package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown node, page or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoActiveProject indicates an operation needs an open project.
	ErrNoActiveProject = errors.New("no active project")

	// ErrCompletionUnavailable indicates no completion endpoint is configured.
	// AI features are disabled until an AI profile is added.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrRequestInFlight indicates a completion request for the same target
	// has not finished yet.
	ErrRequestInFlight = errors.New("request already in flight")
)

// ValidationError reports user input that could not be accepted.
// Callers resolve it locally to a safe default; it is never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed read or write of the project store.
// The in-memory model stays authoritative; the next save retries.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RequestFailed reports a failed call to the completion endpoint.
// It is surfaced to the user and never retried automatically.
type RequestFailed struct {
	StatusCode int // zero when no HTTP response was received
	Message    string
	Err        error
}

func (e *RequestFailed) Error() string {
	msg := "request failed"
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestFailed) Unwrap() error {
	return e.Err
}

// IsRequestFailed reports whether err is or wraps a RequestFailed.
func IsRequestFailed(err error) bool {
	var rf *RequestFailed
	return errors.As(err, &rf)
}
