package generic

import (
	"log/slog"

	"meridian-hq/hermes/pkg/providers"
	"meridian-hq/hermes/pkg/providers/groq"
)

// Provider is a generic OpenAI-compatible provider adapter.
// It supports any upstream that speaks the OpenAI chat completions wire
// format (Ollama, vLLM, LM Studio, OpenRouter, etc.).
//
// The wire translation is identical to Groq's, so this adapter reuses it
// and only relaxes the configuration requirements: the base URL is
// mandatory and the API key is optional (local servers rarely need one).
type Provider struct {
	*groq.Provider
}

// NewProvider creates a new generic OpenAI-compatible provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "generic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required for generic provider",
		}
	}

	// Local OpenAI-compatible servers accept any bearer token.
	if config.APIKey == "" {
		config.APIKey = "not-required"
	}
	config.Type = "generic"

	groqProvider, err := groq.NewProvider(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Provider: groqProvider,
	}

	slog.Info("generic OpenAI-compatible provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// Type returns "generic" as the adapter type.
func (p *Provider) Type() string {
	return "generic"
}
