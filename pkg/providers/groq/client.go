package groq

import (
	"context"
	"fmt"
	"log/slog"

	"meridian-hq/hermes/pkg/providers"
)

// Provider is the Groq provider adapter.
// Groq serves an OpenAI-compatible chat completions API, so the wire
// translation is mostly a pass-through with model mapping.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is used when the caller's model hint is not a Groq model.
const DefaultModel = "llama-3.1-8b-instant"

// NewProvider creates a new Groq provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "groq",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	// Generic OpenAI-compatible upstreams pass model hints through
	// untouched, so they get no default model.
	if config.DefaultModel == "" && config.Type != "generic" {
		config.DefaultModel = DefaultModel
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Groq",
		}
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("Groq provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"default_model", config.DefaultModel,
	)

	return p, nil
}

// MakeRequest sends a completion request to Groq.
func (p *Provider) MakeRequest(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	chatReq := transformRequest(req, p.Config().DefaultModel)

	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}

	var chatResp chatCompletionResponse
	if err := p.DoJSON(ctx, "POST", url, chatReq, &chatResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(p.Name(), req, &chatResp)
	if err != nil {
		return nil, err
	}

	slog.Debug("completion request succeeded",
		"provider", p.Name(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// Ping performs a minimal chat completion for health probing.
func (p *Provider) Ping(ctx context.Context) *providers.PingResult {
	return providers.MeasurePing(ctx, func(ctx context.Context) error {
		_, err := p.MakeRequest(ctx, providers.PingRequest())
		return err
	})
}

// Type returns "groq" as the adapter type.
func (p *Provider) Type() string {
	return "groq"
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
