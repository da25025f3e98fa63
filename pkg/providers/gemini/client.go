package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"meridian-hq/hermes/pkg/providers"
)

// Provider is the Google Gemini provider adapter.
// It translates normalized requests to the generateContent API and
// normalizes the candidate response back.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultBaseURL is the Gemini API endpoint used when the descriptor does
// not override it.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when the caller's model hint is not a Gemini model.
const DefaultModel = "gemini-1.5-flash"

// NewProvider creates a new Gemini provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "gemini",
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
			Message:  "API key is required for Gemini",
		}
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Info("Gemini provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"default_model", config.DefaultModel,
	)

	return p, nil
}

// MakeRequest sends a completion request to Gemini.
func (p *Provider) MakeRequest(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := resolveModel(req.Model, p.Config().DefaultModel)
	geminiReq := transformRequest(req)

	// The key travels in a header, never in the URL, so request logging
	// cannot leak it.
	url := fmt.Sprintf("%s/models/%s:generateContent", p.Config().BaseURL, model)
	headers := map[string]string{
		"x-goog-api-key": p.Config().APIKey,
		"Content-Type":   "application/json",
	}

	var geminiResp generateContentResponse
	if err := p.DoJSON(ctx, "POST", url, geminiReq, &geminiResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(p.Name(), model, req, &geminiResp)
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

// Ping performs a minimal generateContent call for health probing.
func (p *Provider) Ping(ctx context.Context) *providers.PingResult {
	return providers.MeasurePing(ctx, func(ctx context.Context) error {
		_, err := p.MakeRequest(ctx, providers.PingRequest())
		return err
	})
}

// Type returns "gemini" as the adapter type.
func (p *Provider) Type() string {
	return "gemini"
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
