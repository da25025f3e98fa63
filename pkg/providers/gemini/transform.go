package gemini

import (
	"strings"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// generateContentRequest is the Gemini generateContent wire format.
type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// content is a single turn in the Gemini conversation.
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// part is a single content part (text only; the gateway does not proxy
// multimodal requests).
type part struct {
	Text string `json:"text"`
}

// generationConfig carries the sampling parameters.
type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// generateContentResponse is the Gemini generateContent response format.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
			Role  string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// resolveModel maps the caller's model hint to a Gemini model.
// Hints that already name a Gemini model pass through; everything else
// (e.g. "gpt-3.5-turbo") maps to the configured default.
func resolveModel(hint, defaultModel string) string {
	if strings.HasPrefix(strings.ToLower(hint), "gemini") {
		return hint
	}
	return defaultModel
}

// transformRequest converts a normalized request to the Gemini wire format.
// System messages become the systemInstruction; assistant messages map to
// the "model" role.
func transformRequest(req *providers.Request) *generateContentRequest {
	out := &generateContentRequest{}

	var systemParts []part
	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			systemParts = append(systemParts, part{Text: msg.Content})
			continue
		}

		role := "user"
		if msg.Role == providers.RoleAssistant {
			role = "model"
		}
		out.Contents = append(out.Contents, content{
			Role:  role,
			Parts: []part{{Text: msg.Content}},
		})
	}

	if len(systemParts) > 0 {
		out.SystemInstruction = &content{Parts: systemParts}
	}

	if req.Temperature != nil || req.TopP != nil || req.MaxTokens > 0 {
		out.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	return out
}

// transformResponse normalizes a Gemini response.
func transformResponse(provider, model string, req *providers.Request, resp *generateContentResponse) (*providers.Response, error) {
	if len(resp.Candidates) == 0 {
		return nil, &providers.Error{
			Provider: provider,
			Kind:     providers.KindMalformed,
			Message:  "response contained no candidates",
		}
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()

	out := &providers.Response{
		Model:        model,
		Content:      text,
		FinishReason: mapFinishReason(candidate.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
		Created: time.Now().Unix(),
	}

	providers.FillEstimatedUsage(&out.Usage, req, text)

	return out, nil
}

// mapFinishReason converts Gemini finish reasons to the normalized set.
func mapFinishReason(reason string) string {
	switch strings.ToUpper(reason) {
	case "STOP", "":
		return providers.FinishReasonStop
	case "MAX_TOKENS":
		return providers.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return providers.FinishReasonContentFilter
	default:
		return providers.FinishReasonStop
	}
}
