package blogapi

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrNoViewer is returned by feed calls before a viewer is known.
	ErrNoViewer = errors.New("viewer id is not set")

	// ErrNotSignedIn is returned by calls that need a session token.
	ErrNotSignedIn = errors.New("not signed in")
)

// ErrorClass classifies a failed request.
type ErrorClass string

const (
	// ErrorClassClient is a 4xx response.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer is a 5xx response.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork is a transport failure or timeout.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError is a non-success response from the blog API.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("blog api %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("blog api %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status to an error class; "" for success.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 500:
		return ErrorClassServer
	case status >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// shouldRetry reports whether a class is worth another attempt.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassNetwork:
		return true
	default:
		// 4xx will not change on retry
		return false
	}
}
