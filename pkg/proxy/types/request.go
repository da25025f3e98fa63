package types

// Validation bounds for chat completion requests.
const (
	// MaxTokensFloor and MaxTokensCeil bound the max_tokens parameter.
	MaxTokensFloor = 1
	MaxTokensCeil  = 4000

	// TemperatureFloor and TemperatureCeil bound the temperature parameter.
	TemperatureFloor = 0.0
	TemperatureCeil  = 2.0

	// TopPFloor and TopPCeil bound the top_p parameter.
	TopPFloor = 0.0
	TopPCeil  = 1.0
)

// ChatCompletionRequest represents an OpenAI-compatible chat completion
// request. Only the fields the gateway understands are declared; unknown
// fields are ignored on decode.
type ChatCompletionRequest struct {
	// Model is the requested model hint. Adapters map it to a concrete
	// upstream model, so it may name a model the provider does not serve.
	Model string `json:"model"`

	// Messages is the conversation history as a list of messages.
	Messages []Message `json:"messages"`

	// MaxTokens is the maximum number of tokens to generate.
	// Optional; when set it must lie in [1, 4000].
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0). Optional.
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling (0.0 to 1.0). Optional.
	TopP *float64 `json:"top_p,omitempty"`

	// Stream requests server-sent events. The gateway does not support
	// streaming and rejects requests that ask for it.
	Stream bool `json:"stream,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the author of the message ("system", "user", or "assistant").
	Role string `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content"`
}

// validRoles are the message roles the gateway accepts.
var validRoles = map[string]bool{
	"system":    true,
	"user":      true,
	"assistant": true,
}

// Validate checks the request against the gateway's parameter bounds.
// It returns a FieldError describing the first violation, or nil.
func (r *ChatCompletionRequest) Validate() *FieldError {
	if len(r.Messages) == 0 {
		return &FieldError{Field: "messages", Message: "messages must be a non-empty array"}
	}
	for i, msg := range r.Messages {
		if !validRoles[msg.Role] {
			return &FieldError{
				Field:   "messages",
				Message: "message role must be system, user, or assistant",
				Index:   i,
			}
		}
		if msg.Content == "" {
			return &FieldError{
				Field:   "messages",
				Message: "message content must be a non-empty string",
				Index:   i,
			}
		}
	}
	if r.MaxTokens != nil && (*r.MaxTokens < MaxTokensFloor || *r.MaxTokens > MaxTokensCeil) {
		return &FieldError{Field: "max_tokens", Message: "max_tokens must be between 1 and 4000"}
	}
	if r.Temperature != nil && (*r.Temperature < TemperatureFloor || *r.Temperature > TemperatureCeil) {
		return &FieldError{Field: "temperature", Message: "temperature must be between 0 and 2"}
	}
	if r.TopP != nil && (*r.TopP < TopPFloor || *r.TopP > TopPCeil) {
		return &FieldError{Field: "top_p", Message: "top_p must be between 0 and 1"}
	}
	if r.Stream {
		return &FieldError{Field: "stream", Message: "streaming responses are not supported"}
	}
	return nil
}

// FieldError describes a request validation failure.
type FieldError struct {
	// Field is the offending request field
	Field string

	// Message describes the violation
	Message string

	// Index is the message index for per-message violations
	Index int
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
