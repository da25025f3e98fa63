package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// stubProvider satisfies providers.Provider with a canned ping result.
type stubProvider struct {
	name string
	ping *providers.PingResult
}

func (s *stubProvider) MakeRequest(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	return nil, &providers.Error{Provider: s.name, Kind: providers.KindOther, Message: "not implemented"}
}

func (s *stubProvider) Ping(ctx context.Context) *providers.PingResult { return s.ping }
func (s *stubProvider) Name() string                                   { return s.name }
func (s *stubProvider) Type() string                                   { return "generic" }
func (s *stubProvider) Config() providers.Config                       { return providers.Config{Name: s.name} }
func (s *stubProvider) Close() error                                   { return nil }

type stubSource struct {
	providers map[string]providers.Provider
}

func (s *stubSource) All() map[string]providers.Provider { return s.providers }

func TestProbeAllRecordsSamples(t *testing.T) {
	source := &stubSource{providers: map[string]providers.Provider{
		"healthy-one": &stubProvider{
			name: "healthy-one",
			ping: &providers.PingResult{Status: providers.PingHealthy, LatencyMS: 42},
		},
		"failing-one": &stubProvider{
			name: "failing-one",
			ping: &providers.PingResult{Status: providers.PingUnhealthy, LatencyMS: 5000, ErrorKind: providers.KindTimeout},
		},
	}}

	tracker := NewTracker()
	prober := NewProber(source, tracker, time.Hour)
	prober.ProbeAll(context.Background())

	healthy := tracker.AggregateFor("healthy-one")
	if healthy.Uptime != 1.0 {
		t.Errorf("healthy provider uptime = %v, want 1.0", healthy.Uptime)
	}
	if healthy.AvgLatencyMS != 42 {
		t.Errorf("healthy provider avg latency = %v, want 42", healthy.AvgLatencyMS)
	}

	failing := tracker.AggregateFor("failing-one")
	if failing.Uptime != 0 {
		t.Errorf("failing provider uptime = %v, want 0", failing.Uptime)
	}
	if failing.ConsecutiveFailures != 1 {
		t.Errorf("failing provider consecutive failures = %d, want 1", failing.ConsecutiveFailures)
	}
}

func TestProbeAllStopsOnCanceledContext(t *testing.T) {
	source := &stubSource{providers: map[string]providers.Provider{
		"alpha": &stubProvider{
			name: "alpha",
			ping: &providers.PingResult{Status: providers.PingHealthy, LatencyMS: 1},
		},
	}}

	tracker := NewTracker()
	prober := NewProber(source, tracker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	prober.ProbeAll(ctx)

	if agg := tracker.AggregateFor("alpha"); agg.SampleCount != 0 {
		t.Errorf("sample count = %d, want 0 when context already canceled", agg.SampleCount)
	}
}

func TestProberOnSampleHook(t *testing.T) {
	source := &stubSource{providers: map[string]providers.Provider{
		"alpha": &stubProvider{
			name: "alpha",
			ping: &providers.PingResult{Status: providers.PingHealthy, LatencyMS: 17},
		},
	}}

	tracker := NewTracker()
	prober := NewProber(source, tracker, time.Hour)

	var mu sync.Mutex
	var gotProvider string
	var gotSample Sample
	prober.OnSample = func(provider string, sample Sample, agg Aggregate) {
		mu.Lock()
		defer mu.Unlock()
		gotProvider = provider
		gotSample = sample
	}

	prober.ProbeAll(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if gotProvider != "alpha" {
		t.Errorf("hook provider = %q, want %q", gotProvider, "alpha")
	}
	if gotSample.Status != StatusHealthy {
		t.Errorf("hook sample status = %s, want %s", gotSample.Status, StatusHealthy)
	}
	if gotSample.LatencyMS != 17 {
		t.Errorf("hook sample latency = %d, want 17", gotSample.LatencyMS)
	}
}

func TestProberStartStop(t *testing.T) {
	source := &stubSource{providers: map[string]providers.Provider{}}
	prober := NewProber(source, NewTracker(), time.Hour)

	prober.Start(context.Background())
	prober.Start(context.Background()) // second start is a no-op
	prober.Stop()
	prober.Stop() // second stop is a no-op
}
