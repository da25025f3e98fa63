package types

import "meridian-hq/hermes/pkg/router"

// ChatCompletionResponse represents an OpenAI-compatible chat completion
// response, extended with the gateway's routing trace.
type ChatCompletionResponse struct {
	// ID is a unique identifier for the completion ("chatcmpl-<uuid>").
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp of when the completion was created.
	Created int64 `json:"created"`

	// Model is the upstream model that produced the completion.
	Model string `json:"model"`

	// Choices contains the generated completions (always exactly one).
	Choices []Choice `json:"choices"`

	// Usage reports token consumption for the request.
	Usage Usage `json:"usage"`

	// RoutingMetadata is the gateway's routing trace: which provider
	// answered, what was tried before it, and under which policy.
	RoutingMetadata router.Metadata `json:"routing_metadata"`
}

// Choice represents a single completion choice.
type Choice struct {
	// Index is the choice index (always 0).
	Index int `json:"index"`

	// Message is the generated assistant message.
	Message Message `json:"message"`

	// FinishReason is why generation stopped ("stop", "length",
	// "content_filter").
	FinishReason string `json:"finish_reason"`
}

// Usage reports token consumption.
type Usage struct {
	// PromptTokens is the token count of the input.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the token count of the output.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the sum of prompt and completion tokens.
	TotalTokens int `json:"total_tokens"`
}
