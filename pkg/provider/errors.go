package provider

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedTypeError indicates a provider type with no registered backend.
// This is a caller configuration error; no network calls have been made.
type UnsupportedTypeError struct {
	ProviderType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported provider type: %s", e.ProviderType)
}

// TransportError indicates a remote call that failed before a well-formed
// backend response was obtained: connection failure, timeout, or a response
// body that could not be decoded.
type TransportError struct {
	Op  string // operation that failed: "lookup", "create", "update"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorDetail is one code/message pair from a backend error response.
type ErrorDetail struct {
	Code    int
	Message string
}

// APIError indicates the backend completed the call but explicitly rejected
// it. It carries the backend's own diagnostics verbatim, in the order the
// backend reported them.
type APIError struct {
	Errors []ErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return "provider API error"
	}
	parts := make([]string, len(e.Errors))
	for i, d := range e.Errors {
		parts[i] = fmt.Sprintf("%d: %s", d.Code, d.Message)
	}
	return "provider API error: " + strings.Join(parts, ", ")
}

// IsUnsupportedType returns true if the error indicates an unknown provider type.
func IsUnsupportedType(err error) bool {
	var e *UnsupportedTypeError
	return errors.As(err, &e)
}

// IsTransport returns true if the error indicates a transport-level failure.
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsAPIError returns true if the error indicates an explicit backend rejection.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}
