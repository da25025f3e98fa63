package proxy

import (
	"errors"

	"meridian-hq/hermes/pkg/proxy/types"
	"meridian-hq/hermes/pkg/router"
)

// MapRoutingError converts a router failure into the gateway error
// envelope. Attempt traces ride along in details for failed chains so
// clients can see what was tried without any upstream error bodies.
func MapRoutingError(err error) (types.ErrorType, *types.ErrorResponse) {
	var noProviders *router.NoProvidersAvailableError
	if errors.As(err, &noProviders) {
		return types.ErrorTypeNoProviders, types.NewErrorResponse(
			types.ErrorTypeNoProviders,
			"no providers are currently available for this request",
		)
	}

	var allFailed *router.AllProvidersFailedError
	if errors.As(err, &allFailed) {
		return types.ErrorTypeAllProvidersFailed, types.NewErrorResponse(
			types.ErrorTypeAllProvidersFailed,
			"all providers failed to serve the request",
		).WithDetails(map[string]interface{}{
			"attempts": allFailed.Attempts,
		})
	}

	return types.ErrorTypeInternal, types.NewErrorResponse(
		types.ErrorTypeInternal,
		"an internal error occurred",
	)
}
