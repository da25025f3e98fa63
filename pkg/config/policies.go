package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"meridian-hq/hermes/pkg/policy"
)

// policyDescriptor is one entry in the routing policy parameter file.
type policyDescriptor struct {
	MinUptime           float64 `json:"min_uptime"`
	DefaultCostPerToken float64 `json:"default_cost_per_token"`
	Weights             struct {
		Uptime  float64 `json:"uptime"`
		Latency float64 `json:"latency"`
		Cost    float64 `json:"cost"`
	} `json:"weights"`
}

// LoadPolicyParams reads per-policy parameter overrides from path. Keys
// are policy names; unknown names are rejected so a typo does not
// silently fall back to built-in defaults. A missing file is not an
// error: the built-in defaults apply.
func LoadPolicyParams(path string) (map[string]policy.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}

	var raw map[string]policyDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %q: %w", path, err)
	}

	params := make(map[string]policy.Params, len(raw))
	for name, desc := range raw {
		canonical := policy.Normalize(name)
		if !policy.Known(name) {
			return nil, fmt.Errorf("policy file %q: unknown policy %q", path, name)
		}
		params[canonical] = policy.Params{
			MinUptime:           desc.MinUptime,
			DefaultCostPerToken: desc.DefaultCostPerToken,
			Weights: policy.Weights{
				Uptime:  desc.Weights.Uptime,
				Latency: desc.Weights.Latency,
				Cost:    desc.Weights.Cost,
			},
		}
	}

	return params, nil
}
