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

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against the sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrTransport        = errors.New("transport failure")
	ErrCapacity         = errors.New("capacity exceeded")
)

// MalformedPayloadError reports a payload the tree builder refuses to build.
// Section and Row locate the problem when known (Row is -1 for section-level problems).
type MalformedPayloadError struct {
	Section string
	Row     int
	Reason  string
}

// NewMalformedPayload creates a section-level malformed payload error
func NewMalformedPayload(section, reason string) *MalformedPayloadError {
	return &MalformedPayloadError{Section: section, Row: -1, Reason: reason}
}

// NewMalformedRow creates a row-level malformed payload error
func NewMalformedRow(section string, row int, reason string) *MalformedPayloadError {
	return &MalformedPayloadError{Section: section, Row: row, Reason: reason}
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	switch {
	case e.Section == "":
		return fmt.Sprintf("malformed payload: %s", e.Reason)
	case e.Row < 0:
		return fmt.Sprintf("malformed payload: %s: %s", e.Section, e.Reason)
	default:
		return fmt.Sprintf("malformed payload: %s row %d: %s", e.Section, e.Row, e.Reason)
	}
}

// StatusCode implements the HTTPError interface.
// A payload served by our own source is a server-side fault.
func (e *MalformedPayloadError) StatusCode() int {
	return http.StatusBadGateway
}

// Is allows errors.Is() to match against ErrMalformedPayload
func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}
