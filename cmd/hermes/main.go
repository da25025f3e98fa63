// Meridian Hermes is a multi-tenant gateway for LLM chat completion
// traffic.
//
// It accepts OpenAI-compatible requests, authenticates tenants by API
// key, enforces per-tenant rate limits and usage quotas, and routes each
// request to one of several upstream providers under a configurable
// policy, failing over between providers with per-attempt deadlines and
// per-provider circuit breakers.
//
// Usage:
//
//	# Start the gateway with default configuration
//	hermes run
//
//	# Start with a custom configuration file
//	hermes run --config /etc/hermes/config.yaml
//
//	# Validate configuration and data files without starting
//	hermes run --dry-run
//
//	# Show version information
//	hermes version
package main

func main() {
	Execute()
}
