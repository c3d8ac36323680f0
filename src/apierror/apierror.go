package apierror

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks an authentication rejection that the session layer
// could not recover by refreshing the access token. Callers are expected to
// tear down the session; no component state should be mutated because of it.
var ErrSessionExpired = errors.New("session expired")

// ValidationError is a failed client-side precondition. It never reaches the
// network and never alters component state.
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

// NewValidation builds a ValidationError for the given form field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RequestError is a non-2xx server response to a mutating or authenticated
// call. Message carries the server's structured error field when present,
// otherwise a generic fallback.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// IsRequest reports whether err is (or wraps) a RequestError.
func IsRequest(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// TransientFetchError is a failed read-only polling call. The component that
// issued it keeps its last good snapshot; the error is informational only.
type TransientFetchError struct {
	Op  string
	Err error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// NewTransient wraps a fetch failure with the operation that produced it.
func NewTransient(op string, err error) *TransientFetchError {
	return &TransientFetchError{Op: op, Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientFetchError.
func IsTransient(err error) bool {
	var te *TransientFetchError
	return errors.As(err, &te)
}
