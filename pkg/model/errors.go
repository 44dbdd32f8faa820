package model

import "fmt"

// ValidationError reports a missing or malformed input caught locally,
// before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a named field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// ConnectionError means no usable response was received from the gateway:
// the network is down, the server is unreachable, or the reply was not a
// recognizable envelope.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connection failed or the server is not responding"
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// APIError is an application-level failure: the gateway answered, but with a
// non-success status. Message carries the gateway's own text when present,
// otherwise a per-operation fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
