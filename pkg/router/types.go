package router

import (
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// DefaultAttemptTimeout is the router's per-attempt deadline. It is
// independent of the adapter-internal timeout; whichever fires first
// produces an UPSTREAM_TIMEOUT failure for that attempt.
const DefaultAttemptTimeout = 15 * time.Second

// AttemptStatus is the outcome of a single provider attempt.
type AttemptStatus string

const (
	// AttemptSuccess marks an attempt that returned a response.
	AttemptSuccess AttemptStatus = "success"

	// AttemptFailed marks an attempt that errored.
	AttemptFailed AttemptStatus = "failed"
)

// Attempt records one outbound call to one provider within a request.
// Attempts travel with the response (or the failure) in the order tried.
type Attempt struct {
	// Provider is the provider name
	Provider string `json:"provider"`

	// Status is success or failed
	Status AttemptStatus `json:"status"`

	// DurationMS is how long the attempt took
	DurationMS int64 `json:"duration"`

	// ErrorKind classifies the failure (empty on success)
	ErrorKind providers.ErrorKind `json:"error_kind,omitempty"`

	// Error is a short, sanitized failure description (empty on success)
	Error string `json:"error,omitempty"`
}

// Metadata is the routing trace attached to every successful response.
type Metadata struct {
	// PrimaryProvider is the provider that produced the response
	PrimaryProvider string `json:"primary_provider"`

	// Attempts lists every provider tried, in order
	Attempts []Attempt `json:"attempts"`

	// TotalProcessingTimeMS is the wall time spent inside the router
	TotalProcessingTimeMS int64 `json:"total_processing_time"`

	// APIProcessingTimeMS is the duration of the successful upstream call
	APIProcessingTimeMS int64 `json:"api_processing_time"`

	// PolicyUsed is the canonical policy name that ordered the providers
	PolicyUsed string `json:"policy_used"`

	// Timestamp is when routing completed, ISO-8601
	Timestamp time.Time `json:"timestamp"`

	// TenantID is the tenant the request was routed for
	TenantID string `json:"tenant_id"`
}

// Result is a successful routing outcome: the normalized upstream
// response plus the routing trace.
type Result struct {
	// Response is the normalized provider response
	Response *providers.Response

	// Metadata is the routing trace
	Metadata Metadata

	// CostPerToken is the winning provider's configured per-token rate,
	// used for tenant cost accounting
	CostPerToken float64
}
