package types

import (
	"net/http"
	"strings"
)

// ErrorType categorizes gateway errors. The canonical form is upper
// snake case; the wire envelope carries the lowercased form.
type ErrorType string

const (
	// ErrorTypeValidation indicates a malformed or out-of-bounds request (400).
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"

	// ErrorTypeAuthentication indicates a missing or unknown API key (401).
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"

	// ErrorTypeRateLimited indicates the tenant exceeded its per-minute
	// rate limit (429).
	ErrorTypeRateLimited ErrorType = "RATE_LIMITED"

	// ErrorTypeQuotaExceeded indicates the tenant exhausted a usage
	// quota (429).
	ErrorTypeQuotaExceeded ErrorType = "QUOTA_EXCEEDED"

	// ErrorTypeNoProviders indicates no provider passed the routing
	// gates (503).
	ErrorTypeNoProviders ErrorType = "NO_PROVIDERS_AVAILABLE"

	// ErrorTypeAllProvidersFailed indicates every candidate provider
	// failed (502).
	ErrorTypeAllProvidersFailed ErrorType = "ALL_PROVIDERS_FAILED"

	// ErrorTypeInternal indicates an unexpected gateway fault (500).
	ErrorTypeInternal ErrorType = "INTERNAL_ERROR"
)

// StatusCode maps the error type to its HTTP status.
func (t ErrorType) StatusCode() int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeRateLimited, ErrorTypeQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrorTypeNoProviders:
		return http.StatusServiceUnavailable
	case ErrorTypeAllProvidersFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Wire returns the lowercased form used in the response envelope.
func (t ErrorType) Wire() string {
	return strings.ToLower(string(t))
}

// ErrorResponse is the gateway's error envelope.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type is the lowercased error category (e.g., "rate_limited").
	Type string `json:"type"`

	// Details carries structured context for some error types, such as
	// the attempt trace for all_providers_failed.
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse creates an error envelope for the given type.
func NewErrorResponse(t ErrorType, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    t.Wire(),
		},
	}
}

// WithDetails attaches structured context and returns the envelope.
func (e *ErrorResponse) WithDetails(details map[string]interface{}) *ErrorResponse {
	e.Error.Details = details
	return e
}
