package swapi

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNotFound is returned when the upstream resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassNotFound represents 404 responses. Never retried.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassClient represents other 4xx client errors. Never retried.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors. Retried.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassTimeout represents per-attempt deadline expiry. Retried.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassNetwork represents other transport failures. Retried.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassInvalidResponse represents 2xx responses whose body does
	// not decode. Never retried.
	ErrorClassInvalidResponse ErrorClass = "invalid_response"
)

// UpstreamError represents a failed SWAPI request with its classification.
type UpstreamError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		if e.Err != nil {
			return fmt.Sprintf("swapi %s error (status %d): %s: %v",
				e.Class, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("swapi %s error (status %d): %s",
			e.Class, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("swapi %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("swapi %s error: %s", e.Class, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Classify returns the error class of err, or "" when err did not
// originate from an upstream request.
func Classify(err error) ErrorClass {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Class
	}
	return ""
}

// shouldRetry determines if an error class warrants another attempt.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassTimeout, ErrorClassNetwork:
		return true
	default:
		// not_found, client and invalid_response are terminal
		return false
	}
}
