package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"meridian-hq/hermes/pkg/providers"
	"meridian-hq/hermes/pkg/proxy/types"
)

// DefaultMaxBodyBytes limits request body size when no override is
// configured.
const DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10MB

// ParseChatCompletionRequest reads and validates a chat completion
// request from the HTTP request body. The body is capped at maxBytes
// (DefaultMaxBodyBytes when non-positive); oversized bodies and invalid
// JSON both surface as validation errors.
func ParseChatCompletionRequest(r *http.Request, maxBytes int64) (*types.ChatCompletionRequest, *types.ErrorResponse) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return nil, types.NewErrorResponse(types.ErrorTypeValidation,
			"Content-Type must be application/json")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	defer r.Body.Close()

	var req types.ChatCompletionRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, types.NewErrorResponse(types.ErrorTypeValidation,
				"request body exceeds the 10MB limit")
		}
		return nil, types.NewErrorResponse(types.ErrorTypeValidation,
			"request body is not valid JSON")
	}

	if ferr := req.Validate(); ferr != nil {
		return nil, types.NewErrorResponse(types.ErrorTypeValidation, ferr.Error())
	}

	return &req, nil
}

// ExtractAPIKey pulls the bearer token from the Authorization header.
// Returns the empty string when the header is missing or malformed.
func ExtractAPIKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// ToProviderRequest converts the wire request into the normalized form
// the adapters consume.
func ToProviderRequest(req *types.ChatCompletionRequest) *providers.Request {
	messages := make([]providers.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = providers.Message{Role: m.Role, Content: m.Content}
	}

	out := &providers.Request{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}
	return out
}
