package huggingface

import (
	"fmt"
	"strings"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// inferenceRequest is the HuggingFace Inference API wire format.
// The conversation is flattened into a single text prompt.
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
	Options    inferenceOptions    `json:"options"`
}

// inferenceParameters carries the sampling parameters.
type inferenceParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	TopP           *float64 `json:"top_p,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
}

// inferenceOptions controls API behavior around cold models.
// wait_for_model=false makes a loading model answer 503 immediately so
// failover can proceed instead of blocking the attempt budget.
type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// inferenceResponse is the generated-text response; the API answers with
// a single-element array.
type inferenceResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// resolveModel maps the caller's model hint to a HuggingFace repository.
// Anything that looks like an "owner/name" repository passes through.
func resolveModel(hint, defaultModel string) string {
	if strings.Count(hint, "/") == 1 {
		return hint
	}
	return defaultModel
}

// transformRequest flattens the conversation into a single prompt.
func transformRequest(req *providers.Request) *inferenceRequest {
	var sb strings.Builder
	for _, msg := range req.Messages {
		switch msg.Role {
		case providers.RoleSystem:
			fmt.Fprintf(&sb, "System: %s\n", msg.Content)
		case providers.RoleAssistant:
			fmt.Fprintf(&sb, "Assistant: %s\n", msg.Content)
		default:
			fmt.Fprintf(&sb, "User: %s\n", msg.Content)
		}
	}
	sb.WriteString("Assistant:")

	return &inferenceRequest{
		Inputs: sb.String(),
		Parameters: inferenceParameters{
			MaxNewTokens:   req.MaxTokens,
			Temperature:    req.Temperature,
			TopP:           req.TopP,
			ReturnFullText: false,
		},
		Options: inferenceOptions{WaitForModel: false},
	}
}

// transformResponse normalizes an inference response. The API reports no
// token usage, so both directions are estimated from character counts.
func transformResponse(provider, model string, req *providers.Request, hfReq *inferenceRequest, resp inferenceResponse) (*providers.Response, error) {
	if len(resp) == 0 {
		return nil, &providers.Error{
			Provider: provider,
			Kind:     providers.KindMalformed,
			Message:  "response contained no generations",
		}
	}

	text := strings.TrimSpace(resp[0].GeneratedText)

	usage := providers.TokenUsage{
		PromptTokens:     providers.EstimateTokens(hfReq.Inputs),
		CompletionTokens: providers.EstimateTokens(text),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	return &providers.Response{
		Model:        model,
		Content:      text,
		FinishReason: providers.FinishReasonStop,
		Usage:        usage,
		Created:      time.Now().Unix(),
	}, nil
}
