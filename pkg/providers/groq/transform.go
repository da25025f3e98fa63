package groq

import (
	"strings"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// chatCompletionRequest is the OpenAI-compatible chat completions wire
// format that Groq accepts.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []providers.Message `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	TopP        *float64            `json:"top_p,omitempty"`
}

// chatCompletionResponse is the OpenAI-compatible response format.
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Created int64  `json:"created"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage providers.TokenUsage `json:"usage"`
}

// knownModelPrefixes are model-hint prefixes Groq serves natively.
var knownModelPrefixes = []string{"llama", "mixtral", "gemma", "qwen", "deepseek"}

// resolveModel maps the caller's model hint to a Groq model.
// With no configured default (the generic adapter case) the hint passes
// through untouched.
func resolveModel(hint, defaultModel string) string {
	if defaultModel == "" {
		return hint
	}
	lower := strings.ToLower(hint)
	for _, prefix := range knownModelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return hint
		}
	}
	return defaultModel
}

// transformRequest converts a normalized request to the Groq wire format.
func transformRequest(req *providers.Request, defaultModel string) *chatCompletionRequest {
	return &chatCompletionRequest{
		Model:       resolveModel(req.Model, defaultModel),
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
}

// transformResponse normalizes a Groq response.
func transformResponse(provider string, req *providers.Request, resp *chatCompletionResponse) (*providers.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, &providers.Error{
			Provider: provider,
			Kind:     providers.KindMalformed,
			Message:  "response contained no choices",
		}
	}

	choice := resp.Choices[0]

	created := resp.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	finishReason := choice.FinishReason
	if finishReason == "" {
		finishReason = providers.FinishReasonStop
	}

	out := &providers.Response{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: finishReason,
		Usage:        resp.Usage,
		Created:      created,
	}

	providers.FillEstimatedUsage(&out.Usage, req, out.Content)

	return out, nil
}
