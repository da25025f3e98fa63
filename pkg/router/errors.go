package router

import (
	"fmt"

	"meridian-hq/hermes/pkg/providers"
)

// NoProvidersAvailableError is returned when the candidate list is empty
// after applying the tenant allow-list and the circuit breaker gate.
type NoProvidersAvailableError struct {
	// TenantID is the tenant the request was routed for
	TenantID string
}

// Error implements the error interface.
func (e *NoProvidersAvailableError) Error() string {
	return fmt.Sprintf("no providers available for tenant %q", e.TenantID)
}

// AllProvidersFailedError is returned when every ordered provider failed.
// It carries the full attempt list and the last failure classification.
type AllProvidersFailedError struct {
	// TenantID is the tenant the request was routed for
	TenantID string

	// Attempts lists every provider tried, in order
	Attempts []Attempt

	// LastKind is the classification of the final failure
	LastKind providers.ErrorKind
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all %d provider(s) failed for tenant %q (last error: %s)",
		len(e.Attempts), e.TenantID, e.LastKind)
}
