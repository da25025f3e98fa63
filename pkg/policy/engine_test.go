package policy

import (
	"reflect"
	"testing"

	"meridian-hq/hermes/pkg/health"
)

func healthyAgg(uptime, latency float64) health.Aggregate {
	return health.Aggregate{Uptime: uptime, AvgLatencyMS: latency, SampleCount: 20}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cost-optimized", PolicyCostOptimized},
		{"cost_optimized", PolicyCostOptimized},
		{"COST-OPTIMIZED", PolicyCostOptimized},
		{"performance_first", PolicyPerformanceFirst},
		{"balanced", PolicyBalanced},
		{"", PolicyBalanced},
		{"round-robin", PolicyBalanced},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("performance_first") {
		t.Error("underscore synonym should be known")
	}
	if Known("round-robin") {
		t.Error("unknown policy name should not be known")
	}
}

func TestOrderCostOptimized(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "pricey", CostPerToken: 0.003},
		{Name: "cheap", CostPerToken: 0.0001},
		{Name: "middle", CostPerToken: 0.001},
	}
	snapshot := map[string]health.Aggregate{
		"pricey": healthyAgg(1.0, 100),
		"cheap":  healthyAgg(1.0, 500),
		"middle": healthyAgg(1.0, 200),
	}

	got := e.Order(PolicyCostOptimized, candidates, snapshot)
	want := []string{"cheap", "middle", "pricey"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cost-optimized order = %v, want %v", got, want)
	}
}

func TestOrderPerformanceFirst(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "slow"},
		{Name: "fast"},
		{Name: "medium"},
	}
	snapshot := map[string]health.Aggregate{
		"slow":   healthyAgg(1.0, 900),
		"fast":   healthyAgg(1.0, 50),
		"medium": healthyAgg(1.0, 300),
	}

	got := e.Order(PolicyPerformanceFirst, candidates, snapshot)
	want := []string{"fast", "medium", "slow"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("performance-first order = %v, want %v", got, want)
	}
}

func TestOrderBalancedPrefersHealthyCheapFast(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "good", CostPerToken: 0.0001},
		{Name: "bad", CostPerToken: 0.009},
	}
	snapshot := map[string]health.Aggregate{
		"good": healthyAgg(1.0, 100),
		"bad":  healthyAgg(0.95, 1500),
	}

	got := e.Order(PolicyBalanced, candidates, snapshot)
	if got[0] != "good" {
		t.Errorf("balanced order = %v, want good first", got)
	}
}

func TestOrderFiltersLowUptime(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "flaky"},
		{Name: "stable"},
	}
	snapshot := map[string]health.Aggregate{
		"flaky":  healthyAgg(0.5, 50), // fastest, but below the uptime floor
		"stable": healthyAgg(1.0, 400),
	}

	got := e.Order(PolicyPerformanceFirst, candidates, snapshot)
	want := []string{"stable", "flaky"}
	// flaky is filtered from the eligible set entirely
	if len(got) != 1 || got[0] != "stable" {
		t.Errorf("order = %v, want %v minus the filtered candidate", got, want[:1])
	}
}

func TestOrderFailsOpenWhenAllBelowFloor(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "alpha"},
		{Name: "beta"},
	}
	snapshot := map[string]health.Aggregate{
		"alpha": healthyAgg(0.3, 100),
		"beta":  healthyAgg(0.4, 200),
	}

	got := e.Order(PolicyBalanced, candidates, snapshot)
	if len(got) != 2 {
		t.Fatalf("order = %v, want both candidates when the floor empties the set", got)
	}
}

func TestOrderDeterministicTieBreak(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{
		{Name: "zeta", CostPerToken: 0.001},
		{Name: "alpha", CostPerToken: 0.001},
	}
	snapshot := map[string]health.Aggregate{
		"zeta":  healthyAgg(1.0, 100),
		"alpha": healthyAgg(1.0, 100),
	}

	for i := 0; i < 10; i++ {
		got := e.Order(PolicyCostOptimized, candidates, snapshot)
		if got[0] != "alpha" || got[1] != "zeta" {
			t.Fatalf("tie break order = %v, want lexicographic [alpha zeta]", got)
		}
	}
}

func TestOrderUnsampledProviderIsEligible(t *testing.T) {
	e := NewEngine(nil)

	candidates := []Candidate{{Name: "brand-new"}}
	got := e.Order(PolicyBalanced, candidates, nil)
	if len(got) != 1 || got[0] != "brand-new" {
		t.Errorf("order = %v, want the unsampled provider to be routable", got)
	}
}

func TestOrderEmptyCandidates(t *testing.T) {
	e := NewEngine(nil)
	if got := e.Order(PolicyBalanced, nil, nil); got != nil {
		t.Errorf("order of empty candidates = %v, want nil", got)
	}
}

func TestParamsForOverrides(t *testing.T) {
	e := NewEngine(map[string]Params{
		PolicyCostOptimized: {MinUptime: 0.5},
	})

	p := e.ParamsFor(PolicyCostOptimized)
	if p.MinUptime != 0.5 {
		t.Errorf("min uptime = %v, want 0.5", p.MinUptime)
	}
	// Unset fields fall back to defaults.
	if p.DefaultCostPerToken != DefaultCostPerToken {
		t.Errorf("default cost = %v, want %v", p.DefaultCostPerToken, DefaultCostPerToken)
	}
	if p.Weights != DefaultWeights() {
		t.Errorf("weights = %+v, want defaults", p.Weights)
	}
}

func TestScoreWeighting(t *testing.T) {
	e := NewEngine(nil)
	params := DefaultParams()

	perfect := e.Score(Candidate{Name: "p", CostPerToken: 0.000001}, healthyAgg(1.0, 0), params)
	if perfect < 0.99 {
		t.Errorf("score of a perfect candidate = %v, want near 1.0", perfect)
	}

	awful := e.Score(Candidate{Name: "a", CostPerToken: 0.05}, healthyAgg(0, 5000), params)
	if awful != 0 {
		t.Errorf("score of an awful candidate = %v, want 0", awful)
	}
}
