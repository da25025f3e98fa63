package policy

import (
	"sort"

	"meridian-hq/hermes/pkg/health"
)

// Candidate is one provider eligible for routing, with the static inputs
// the policies need. The caller has already applied the tenant allow-list
// and the circuit breaker gate.
type Candidate struct {
	// Name is the provider name
	Name string

	// CostPerToken is the configured cost (0 = DefaultCostPerToken)
	CostPerToken float64
}

// Engine orders candidate providers according to a named policy.
//
// The engine is pure: it performs no I/O, holds no locks, and touches no
// shared state. Given identical inputs it always produces the same order;
// ties break lexicographically by provider name.
type Engine struct {
	params map[string]Params
}

// NewEngine creates an engine with per-policy parameters. Policies absent
// from the map use DefaultParams.
func NewEngine(params map[string]Params) *Engine {
	if params == nil {
		params = make(map[string]Params)
	}
	return &Engine{params: params}
}

// ParamsFor returns the effective parameters for a canonical policy name.
func (e *Engine) ParamsFor(policy string) Params {
	p, ok := e.params[policy]
	if !ok {
		return DefaultParams()
	}
	if p.MinUptime == 0 {
		p.MinUptime = DefaultMinUptime
	}
	if p.Weights == (Weights{}) {
		p.Weights = DefaultWeights()
	}
	if p.DefaultCostPerToken == 0 {
		p.DefaultCostPerToken = DefaultCostPerToken
	}
	return p
}

// Order returns candidate provider names ordered by the named policy.
//
// All policies first drop candidates whose uptime is below the MinUptime
// floor. If that leaves nothing, the unfiltered set is ordered instead:
// the floor fails open, never empty, when candidates exist.
func (e *Engine) Order(policyName string, candidates []Candidate, snapshot map[string]health.Aggregate) []string {
	if len(candidates) == 0 {
		return nil
	}

	canonical := Normalize(policyName)
	params := e.ParamsFor(canonical)

	eligible := filterByUptime(candidates, snapshot, params.MinUptime)
	if len(eligible) == 0 {
		eligible = candidates
	}

	ordered := make([]Candidate, len(eligible))
	copy(ordered, eligible)

	switch canonical {
	case PolicyCostOptimized:
		sort.SliceStable(ordered, func(i, j int) bool {
			ci := costOf(ordered[i], params)
			cj := costOf(ordered[j], params)
			if ci != cj {
				return ci < cj
			}
			ui := aggregateOf(snapshot, ordered[i].Name).Uptime
			uj := aggregateOf(snapshot, ordered[j].Name).Uptime
			if ui != uj {
				return ui > uj
			}
			return ordered[i].Name < ordered[j].Name
		})

	case PolicyPerformanceFirst:
		sort.SliceStable(ordered, func(i, j int) bool {
			li := aggregateOf(snapshot, ordered[i].Name).AvgLatencyMS
			lj := aggregateOf(snapshot, ordered[j].Name).AvgLatencyMS
			if li != lj {
				return li < lj
			}
			ui := aggregateOf(snapshot, ordered[i].Name).Uptime
			uj := aggregateOf(snapshot, ordered[j].Name).Uptime
			if ui != uj {
				return ui > uj
			}
			return ordered[i].Name < ordered[j].Name
		})

	default: // balanced
		sort.SliceStable(ordered, func(i, j int) bool {
			si := e.Score(ordered[i], aggregateOf(snapshot, ordered[i].Name), params)
			sj := e.Score(ordered[j], aggregateOf(snapshot, ordered[j].Name), params)
			if si != sj {
				return si > sj
			}
			return ordered[i].Name < ordered[j].Name
		})
	}

	names := make([]string, len(ordered))
	for i, c := range ordered {
		names[i] = c.Name
	}
	return names
}

// Score computes the balanced-policy score for a candidate.
//
//	uptime_score  = clamp(uptime, 0, 1)
//	latency_score = max(0, 1 - avg_latency/2000)
//	cost_score    = max(0, 1 - cost_per_token/0.01)
//	score = w_uptime*uptime_score + w_latency*latency_score + w_cost*cost_score
func (e *Engine) Score(c Candidate, agg health.Aggregate, params Params) float64 {
	uptimeScore := clamp(agg.Uptime, 0, 1)

	latencyScore := 1 - agg.AvgLatencyMS/LatencyNormalizerMS
	if latencyScore < 0 {
		latencyScore = 0
	}

	costScore := 1 - costOf(c, params)/CostNormalizer
	if costScore < 0 {
		costScore = 0
	}

	w := params.Weights
	return w.Uptime*uptimeScore + w.Latency*latencyScore + w.Cost*costScore
}

// filterByUptime drops candidates below the uptime floor.
func filterByUptime(candidates []Candidate, snapshot map[string]health.Aggregate, minUptime float64) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if aggregateOf(snapshot, c.Name).Uptime >= minUptime {
			out = append(out, c)
		}
	}
	return out
}

// aggregateOf looks up a provider's aggregate, defaulting to a healthy
// view for providers with no samples yet.
func aggregateOf(snapshot map[string]health.Aggregate, name string) health.Aggregate {
	if agg, ok := snapshot[name]; ok {
		return agg
	}
	return health.Aggregate{
		Uptime:       1.0,
		AvgLatencyMS: health.FallbackLatencyMS,
	}
}

// costOf returns the candidate's effective cost per token.
func costOf(c Candidate, params Params) float64 {
	if c.CostPerToken > 0 {
		return c.CostPerToken
	}
	return params.DefaultCostPerToken
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
