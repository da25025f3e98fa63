package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// ProviderDescriptor is one entry in the provider catalog file. Keys of
// the top-level JSON object are the provider names, so names are unique
// by construction.
type ProviderDescriptor struct {
	// Type selects the adapter: "gemini", "groq", "huggingface", or
	// "generic". Empty types are inferred from the provider name.
	Type string `json:"type"`

	// BaseURL overrides the adapter's default endpoint. Required for
	// generic providers.
	BaseURL string `json:"base_url"`

	// APIKeyEnv names the environment variable holding the API key. The
	// key itself never appears in configuration files.
	APIKeyEnv string `json:"api_key_env"`

	// Enabled gates the provider. Defaults to true when omitted.
	Enabled *bool `json:"enabled"`

	// DefaultModel overrides the adapter's default model.
	DefaultModel string `json:"default_model"`

	// CostPerToken is the estimated cost per token in USD, used by the
	// cost-aware routing policies.
	CostPerToken float64 `json:"cost_per_token"`

	// TimeoutMS overrides the adapter's HTTP timeout, in milliseconds.
	TimeoutMS int `json:"timeout_ms"`
}

// LoadProviders reads the provider catalog from path and resolves each
// descriptor into an adapter configuration. Disabled providers and
// providers whose API key variable is unset are skipped with a warning;
// the file is rejected only when it cannot be read or parsed, or when it
// yields no providers at all.
func LoadProviders(path string) ([]providers.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog %q: %w", path, err)
	}

	var catalog map[string]ProviderDescriptor
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog %q: %w", path, err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("provider catalog %q defines no providers", path)
	}

	logger := slog.Default().With("component", "config.providers")

	// Deterministic load order regardless of map iteration.
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	var configs []providers.Config
	for _, name := range names {
		desc := catalog[name]

		if desc.Enabled != nil && !*desc.Enabled {
			logger.Info("provider disabled, skipping", "provider", name)
			continue
		}

		apiKey := ""
		if desc.APIKeyEnv != "" {
			apiKey = os.Getenv(desc.APIKeyEnv)
			if apiKey == "" {
				logger.Warn("provider API key variable unset, skipping",
					"provider", name,
					"env", desc.APIKeyEnv,
				)
				continue
			}
		}

		cfg := providers.Config{
			Name:         name,
			Type:         desc.Type,
			BaseURL:      desc.BaseURL,
			APIKey:       apiKey,
			DefaultModel: desc.DefaultModel,
			CostPerToken: desc.CostPerToken,
		}
		if desc.TimeoutMS > 0 {
			cfg.Timeout = time.Duration(desc.TimeoutMS) * time.Millisecond
		}
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, fmt.Errorf("provider catalog %q yields no usable providers", path)
	}

	return configs, nil
}
