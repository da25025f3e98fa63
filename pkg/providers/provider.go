package providers

import "context"

// Provider is the capability contract every upstream LLM adapter must satisfy.
// It gives the router a uniform way to execute a normalized chat-completion
// request against any vendor (Gemini, Groq, HuggingFace, or any
// OpenAI-compatible endpoint).
//
// All methods accept a context.Context for cancellation and deadline control.
// Implementations must respect context cancellation and return immediately
// when the context is cancelled.
//
// Adapters never retry. Failover and retry policy belong to the router; an
// adapter performs exactly one upstream call per MakeRequest invocation and
// classifies the outcome into a typed error kind.
//
// Example usage:
//
//	provider, err := gemini.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	req := &Request{
//	    Model: "gpt-3.5-turbo",
//	    Messages: []Message{
//	        {Role: "user", Content: "Hello!"},
//	    },
//	}
//	resp, err := provider.MakeRequest(ctx, req)
type Provider interface {
	// MakeRequest sends a normalized completion request upstream and returns
	// the normalized response. The request is translated to the vendor wire
	// format, authenticated, and executed under the adapter-internal timeout.
	//
	// On failure the returned error is (or wraps) an *Error whose Kind is one
	// of the closed classification set (invalid credential, upstream rate
	// limited, unavailable, timeout, malformed, other).
	MakeRequest(ctx context.Context, req *Request) (*Response, error)

	// Ping performs a small synthetic completion suitable for health probing.
	// It is cheap by construction (minimal prompt, at most ~10 tokens) and
	// never retries. The result always carries the measured latency, even on
	// failure.
	Ping(ctx context.Context) *PingResult

	// Name returns the provider's configured name (e.g. "gemini", "groq").
	Name() string

	// Type returns the adapter type tag (e.g. "gemini", "groq",
	// "huggingface", "generic").
	Type() string

	// Config returns the provider's configuration.
	Config() Config

	// Close releases any resources held by the adapter (idle HTTP
	// connections). After Close the provider must not be used.
	Close() error
}

// PingStatus is the outcome of a health probe.
type PingStatus string

const (
	// PingHealthy indicates the probe completed successfully.
	PingHealthy PingStatus = "healthy"

	// PingUnhealthy indicates the probe failed.
	PingUnhealthy PingStatus = "unhealthy"
)

// PingResult is the outcome of a single health probe against a provider.
type PingResult struct {
	// Status is healthy or unhealthy.
	Status PingStatus `json:"status"`

	// LatencyMS is the measured round-trip latency in milliseconds.
	// For failed probes this is the time until the failure was observed.
	LatencyMS int64 `json:"latency_ms"`

	// ErrorKind classifies the failure when Status is unhealthy.
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}
