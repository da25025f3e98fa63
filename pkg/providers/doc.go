// Package providers implements a unified abstraction layer for upstream
// LLM providers.
//
// # Overview
//
// The providers package gives the router a consistent capability contract
// for every upstream vendor: execute one normalized chat-completion request
// (MakeRequest) or one cheap synthetic probe (Ping). It normalizes requests
// and responses, manages pooled connections, and classifies every upstream
// failure into a closed set of typed error kinds.
//
// # Architecture
//
// The package is organized into several layers:
//
//  1. Provider Interface - the contract all adapters implement
//  2. Base HTTP Provider - common HTTP client logic (connection pooling,
//     adapter-internal timeout, error classification)
//  3. Adapters - vendor-specific wire translation (gemini, groq,
//     huggingface, generic)
//  4. Provider Factory - creates adapters from descriptors
//  5. Provider Manager - owns the live provider set with atomic replacement
//
// # Basic Usage
//
//	config := providers.Config{
//	    Name:    "groq",
//	    Type:    "groq",
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    APIKey:  os.Getenv("GROQ_API_KEY"),
//	    Timeout: 12 * time.Second,
//	}
//
//	provider, err := groq.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.MakeRequest(ctx, &providers.Request{
//	    Model: "gpt-3.5-turbo",
//	    Messages: []providers.Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	})
//
// # Error Handling
//
// Every upstream failure surfaces as (or wraps) *Error carrying one of the
// classification kinds:
//
//   - INVALID_CREDENTIAL: upstream rejected the API key (401/403)
//   - UPSTREAM_RATE_LIMITED: upstream rate limit (429)
//   - UPSTREAM_UNAVAILABLE: 5xx, including model-loading 503
//   - UPSTREAM_TIMEOUT: adapter or caller deadline exceeded
//   - UPSTREAM_MALFORMED: response could not be parsed
//   - UPSTREAM_OTHER: everything else
//
// KindOf extracts the kind from any error chain:
//
//	resp, err := provider.MakeRequest(ctx, req)
//	if err != nil {
//	    switch providers.KindOf(err) {
//	    case providers.KindRateLimited:
//	        // try the next provider
//	    case providers.KindInvalidCredential:
//	        // configuration problem, alert
//	    }
//	}
//
// # No Retries
//
// Adapters never retry. One MakeRequest is one upstream call; the router
// owns failover across providers and reports each outcome to the circuit
// breaker and health tracker exactly once.
//
// # Token Estimation
//
// When an upstream does not report token usage, adapters estimate both
// directions as ceil(characters / 4) via EstimateTokens.
//
// # Thread Safety
//
// All adapters are thread-safe and can be used concurrently from multiple
// goroutines.
package providers
