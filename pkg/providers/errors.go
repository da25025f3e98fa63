package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrorKind classifies an upstream failure into one of a closed set of
// causes. Adapters map vendor-specific error signals to these kinds; the
// router and health tracker only ever see the classification.
type ErrorKind string

const (
	// KindInvalidCredential indicates the upstream rejected the API key
	// (HTTP 401 or 403).
	KindInvalidCredential ErrorKind = "INVALID_CREDENTIAL"

	// KindRateLimited indicates the upstream rate limited the request
	// (HTTP 429).
	KindRateLimited ErrorKind = "UPSTREAM_RATE_LIMITED"

	// KindUnavailable indicates the upstream is temporarily unable to
	// serve (HTTP 5xx, including HuggingFace model-loading 503).
	KindUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"

	// KindTimeout indicates the request exceeded a deadline, whether the
	// adapter-internal timeout or the router's per-attempt deadline.
	KindTimeout ErrorKind = "UPSTREAM_TIMEOUT"

	// KindMalformed indicates the upstream returned a response that could
	// not be parsed into the expected shape.
	KindMalformed ErrorKind = "UPSTREAM_MALFORMED"

	// KindOther covers everything else (network failures, 4xx codes with
	// no more specific classification).
	KindOther ErrorKind = "UPSTREAM_OTHER"
)

// Error is the typed error returned by provider adapters.
// It carries the provider name, the failure classification, and the HTTP
// status code when one was observed.
type Error struct {
	// Provider is the name of the provider that produced the error
	Provider string

	// Kind is the failure classification
	Kind ErrorKind

	// StatusCode is the upstream HTTP status code (0 if not applicable)
	StatusCode int

	// Message is a short description safe for logs and client responses.
	// It must never contain API keys or prompt text.
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q %s: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// RetryAfterError wraps a rate-limit *Error and additionally carries the
// upstream's Retry-After hint. It is produced for rate-limit responses
// that include the header.
type RetryAfterError struct {
	// Err is the underlying rate-limit classification
	Err Error

	// RetryAfter is the duration the upstream asked us to wait
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Err.Error(), e.RetryAfter)
}

// Unwrap exposes the inner *Error so errors.As classification sees the
// rate-limit kind.
func (e *RetryAfterError) Unwrap() error {
	return &e.Err
}

// KindOf extracts the ErrorKind from an error chain.
// Unclassified errors map to KindOther, except context deadline and
// cancellation errors which map to KindTimeout.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindOther
}

// ValidationError represents a request validation failure detected before
// any upstream call is made.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents a provider configuration error.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
