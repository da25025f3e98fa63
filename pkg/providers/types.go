package providers

import "time"

// Message represents a single message in a conversation.
// It is provider-agnostic and is translated to vendor-specific formats
// by each adapter.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion)
	TotalTokens int `json:"total_tokens"`
}

// Request represents a normalized, provider-agnostic completion request.
// It is translated to vendor-specific wire formats by each adapter.
type Request struct {
	// Model is the model hint from the caller (e.g. "gpt-3.5-turbo").
	// Adapters map unknown models to their configured default model.
	Model string `json:"model"`

	// Messages is the conversation history, oldest first
	Messages []Message `json:"messages"`

	// MaxTokens is the maximum number of tokens to generate (0 = vendor default)
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling (0.0 to 1.0)
	TopP *float64 `json:"top_p,omitempty"`
}

// Response represents a normalized completion response.
// It is built by each adapter from the vendor-specific response and is
// later formatted to the OpenAI-compatible wire shape by the HTTP layer.
type Response struct {
	// ID is the upstream response identifier (may be empty; the HTTP
	// layer generates one if so)
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated assistant text
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	// (stop, length, content_filter)
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption. When the upstream does not report
	// token counts, adapters estimate both directions as ceil(chars/4).
	Usage TokenUsage `json:"usage"`

	// Created is the Unix timestamp when the response was created
	Created int64 `json:"created"`
}

// Config contains the resolved configuration for a single provider instance.
// It mirrors the provider descriptor from providers.json with the API key
// already resolved from its environment variable.
type Config struct {
	// Name is the unique provider identifier (primary key)
	Name string

	// Type is the adapter type (gemini, groq, huggingface, generic)
	Type string

	// BaseURL is the API endpoint base URL
	BaseURL string

	// APIKey is the resolved authentication secret
	APIKey string

	// DefaultModel is used when the caller's model hint is not recognized
	// by the vendor
	DefaultModel string

	// CostPerToken is the estimated cost per token in USD, used by the
	// cost-aware routing policies (0 = policy default)
	CostPerToken float64

	// Timeout is the adapter-internal request timeout
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)

// DefaultTimeout is the adapter-internal request timeout used when the
// descriptor does not specify one.
const DefaultTimeout = 12 * time.Second
