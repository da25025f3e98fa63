package policy

import "strings"

// Built-in policy names.
const (
	// PolicyCostOptimized orders providers by ascending cost per token.
	PolicyCostOptimized = "cost-optimized"

	// PolicyPerformanceFirst orders providers by ascending average latency.
	PolicyPerformanceFirst = "performance-first"

	// PolicyBalanced scores providers on weighted uptime, latency, and
	// cost. This is the default policy.
	PolicyBalanced = "balanced"
)

// Default policy parameters.
const (
	// DefaultMinUptime is the uptime floor below which providers are
	// filtered out (fail-open when the filter empties the set).
	DefaultMinUptime = 0.90

	// DefaultCostPerToken is assumed for providers with no configured
	// cost.
	DefaultCostPerToken = 0.002

	// LatencyNormalizerMS maps average latency onto [0,1] for the
	// balanced score: latency_score = max(0, 1 - avg_latency/2000).
	LatencyNormalizerMS = 2000

	// CostNormalizer maps cost per token onto [0,1] for the balanced
	// score: cost_score = max(0, 1 - cost/0.01).
	CostNormalizer = 0.01
)

// Weights are the balanced-policy score weights.
type Weights struct {
	// Uptime weights the uptime score (default 0.3)
	Uptime float64 `json:"uptime"`

	// Latency weights the latency score (default 0.4)
	Latency float64 `json:"latency"`

	// Cost weights the cost score (default 0.3)
	Cost float64 `json:"cost"`
}

// DefaultWeights returns the default balanced-policy weights.
func DefaultWeights() Weights {
	return Weights{Uptime: 0.3, Latency: 0.4, Cost: 0.3}
}

// Params are the tunable policy parameters, overridable per policy via
// policies/routing.json.
type Params struct {
	// MinUptime is the uptime floor applied by every policy
	MinUptime float64 `json:"min_uptime"`

	// Weights are the balanced-policy weights
	Weights Weights `json:"weights"`

	// DefaultCostPerToken is assumed for providers with no configured cost
	DefaultCostPerToken float64 `json:"default_cost_per_token"`
}

// DefaultParams returns the default policy parameters.
func DefaultParams() Params {
	return Params{
		MinUptime:           DefaultMinUptime,
		Weights:             DefaultWeights(),
		DefaultCostPerToken: DefaultCostPerToken,
	}
}

// Normalize maps a policy name to its canonical form.
// Underscore variants are accepted as synonyms (e.g. "performance_first").
// Unknown or empty names normalize to the balanced default.
func Normalize(name string) string {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-") {
	case PolicyCostOptimized:
		return PolicyCostOptimized
	case PolicyPerformanceFirst:
		return PolicyPerformanceFirst
	case PolicyBalanced, "":
		return PolicyBalanced
	default:
		return PolicyBalanced
	}
}

// Known reports whether name (canonical or synonym) is a built-in policy.
func Known(name string) bool {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-") {
	case PolicyCostOptimized, PolicyPerformanceFirst, PolicyBalanced, "":
		return true
	default:
		return false
	}
}
