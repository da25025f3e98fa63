package audit

import "time"

// Outcome classifies how a gateway request ended.
type Outcome string

const (
	// OutcomeSuccess marks a request answered by a provider.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailed marks a request where every provider failed.
	OutcomeFailed Outcome = "failed"

	// OutcomeRejected marks a request rejected before routing (validation,
	// authentication, rate limit, or quota).
	OutcomeRejected Outcome = "rejected"
)

// AttemptTrace is one provider attempt inside a recorded request.
type AttemptTrace struct {
	// Provider is the provider name
	Provider string `json:"provider"`

	// Status is "success" or "failed"
	Status string `json:"status"`

	// DurationMS is how long the attempt took
	DurationMS int64 `json:"duration"`

	// ErrorKind classifies the failure (empty on success)
	ErrorKind string `json:"error_kind,omitempty"`
}

// Record is one audited gateway request.
//
// Records deliberately carry no message content and no credentials, only
// routing outcomes and sizes, so the audit trail can be retained without
// holding tenant data.
type Record struct {
	// ID is a UUID assigned when the record is created
	ID string

	// RequestID is the gateway request ID (X-Request-ID)
	RequestID string

	// TenantID is the authenticated tenant, empty when authentication failed
	TenantID string

	// Outcome classifies how the request ended
	Outcome Outcome

	// StatusCode is the HTTP status returned to the client
	StatusCode int

	// ErrorType is the gateway error type for non-success outcomes
	ErrorType string

	// Provider is the provider that answered (empty unless success)
	Provider string

	// Policy is the canonical routing policy used (empty when not routed)
	Policy string

	// Model is the model hint from the request (a model name, not content)
	Model string

	// Attempts is the per-provider attempt trace
	Attempts []AttemptTrace

	// TotalTokens is the token usage reported or estimated for the request
	TotalTokens int

	// DurationMS is the request wall time
	DurationMS int64

	// CreatedAt is when the record was created
	CreatedAt time.Time
}
