package core

import (
	"errors"
	"fmt"
)

// ValidationError reports an entry rejected before it reached the buffer.
// It is always surfaced synchronously to the caller and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// HTTPError reports a request the ingestion service rejected with a
// non-2xx status.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Body)
}

// Retryable reports whether the status is classified as transient.
// Client errors are final, except timeouts and rate limiting.
func (e *HTTPError) Retryable() bool {
	switch {
	case e.Status == 408, e.Status == 429:
		return true
	case e.Status >= 500:
		return true
	}
	return false
}

// Retryable classifies a submission failure. HTTP failures follow the
// status policy above; validation failures are never retried; anything
// else is a transport-level failure and assumed transient.
func Retryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return false
	}
	return true
}
