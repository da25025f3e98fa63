package huggingface

import (
	"context"
	"fmt"
	"log/slog"

	"meridian-hq/hermes/pkg/providers"
)

// Provider is the HuggingFace Inference API provider adapter.
// The Inference API is not OpenAI-shaped: it takes a flattened text prompt
// per model and answers with generated text. A cold model answers 503
// while it loads, which the base classification surfaces as
// UPSTREAM_UNAVAILABLE so the router fails over instead of waiting.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultBaseURL is the HuggingFace Inference API endpoint.
const DefaultBaseURL = "https://api-inference.huggingface.co"

// DefaultModel is used when the caller's model hint does not name a
// HuggingFace repository.
const DefaultModel = "mistralai/Mistral-7B-Instruct-v0.3"

// NewProvider creates a new HuggingFace provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "huggingface",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.DefaultModel == "" {
		config.DefaultModel = DefaultModel
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for HuggingFace",
		}
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("HuggingFace provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"default_model", config.DefaultModel,
	)

	return p, nil
}

// MakeRequest sends a completion request to the HuggingFace Inference API.
func (p *Provider) MakeRequest(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := resolveModel(req.Model, p.Config().DefaultModel)
	hfReq := transformRequest(req)

	url := fmt.Sprintf("%s/models/%s", p.Config().BaseURL, model)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}

	var hfResp inferenceResponse
	if err := p.DoJSON(ctx, "POST", url, hfReq, &hfResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(p.Name(), model, req, hfReq, hfResp)
	if err != nil {
		return nil, err
	}

	slog.Debug("completion request succeeded",
		"provider", p.Name(),
		"model", model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// Ping performs a minimal inference call for health probing.
func (p *Provider) Ping(ctx context.Context) *providers.PingResult {
	return providers.MeasurePing(ctx, func(ctx context.Context) error {
		_, err := p.MakeRequest(ctx, providers.PingRequest())
		return err
	})
}

// Type returns "huggingface" as the adapter type.
func (p *Provider) Type() string {
	return "huggingface"
}

// validateRequest checks the request before any upstream call.
func validateRequest(req *providers.Request) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}
	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}
	return nil
}
