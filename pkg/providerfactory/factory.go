package providerfactory

import (
	"fmt"
	"log/slog"
	"strings"

	"meridian-hq/hermes/pkg/providers"
	"meridian-hq/hermes/pkg/providers/gemini"
	"meridian-hq/hermes/pkg/providers/generic"
	"meridian-hq/hermes/pkg/providers/groq"
	"meridian-hq/hermes/pkg/providers/huggingface"
)

// NewProvider creates a new provider instance from a resolved configuration.
//
// Supported provider types:
//   - "gemini": Google Gemini generateContent API
//   - "groq": Groq's OpenAI-compatible API
//   - "huggingface": HuggingFace Inference API
//   - "generic": any OpenAI-compatible API (Ollama, vLLM, OpenRouter, ...)
//
// The provider type is taken from config.Type. If not specified it is
// inferred from the provider name; unknown names default to "generic".
//
// Example:
//
//	config := providers.Config{
//	    Name:   "gemini",
//	    Type:   "gemini",
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	}
//	provider, err := providerfactory.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func NewProvider(config providers.Config) (providers.Provider, error) {
	providerType := config.Type
	if providerType == "" {
		providerType = inferProviderType(config.Name)
		config.Type = providerType
	}

	slog.Debug("creating provider",
		"name", config.Name,
		"type", providerType,
		"base_url", config.BaseURL,
	)

	var provider providers.Provider
	var err error

	switch providerType {
	case "gemini":
		provider, err = gemini.NewProvider(config)

	case "groq":
		provider, err = groq.NewProvider(config)

	case "huggingface":
		provider, err = huggingface.NewProvider(config)

	case "generic":
		provider, err = generic.NewProvider(config)

	default:
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: gemini, groq, huggingface, generic)", providerType),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	slog.Info("provider created",
		"name", config.Name,
		"type", providerType,
	)

	return provider, nil
}

// inferProviderType infers the adapter type from the provider name.
func inferProviderType(name string) string {
	switch {
	case strings.HasPrefix(name, "gemini"):
		return "gemini"
	case strings.HasPrefix(name, "groq"):
		return "groq"
	case strings.HasPrefix(name, "huggingface") || strings.HasPrefix(name, "hf"):
		return "huggingface"
	default:
		return "generic"
	}
}
