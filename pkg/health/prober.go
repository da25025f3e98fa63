package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// DefaultProbeInterval is the default cadence of the background prober.
const DefaultProbeInterval = 300 * time.Second

// ProviderSource yields the current provider set to probe. The provider
// manager satisfies this.
type ProviderSource interface {
	All() map[string]providers.Provider
}

// Prober periodically pings every loaded provider and feeds the results
// into the health tracker. Probes run serially so a probe burst never
// competes with in-flight request traffic for connections.
type Prober struct {
	source   ProviderSource
	tracker  *Tracker
	interval time.Duration
	logger   *slog.Logger

	// OnSample, when set before Start, observes every recorded probe
	// together with the provider's refreshed aggregate. Used to publish
	// health metrics without coupling the prober to the metrics plane.
	OnSample func(provider string, sample Sample, agg Aggregate)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewProber creates a prober over the given provider source.
// A non-positive interval falls back to DefaultProbeInterval.
func NewProber(source ProviderSource, tracker *Tracker, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	return &Prober{
		source:   source,
		tracker:  tracker,
		interval: interval,
		logger:   slog.Default().With("component", "health.prober"),
	}
}

// Start launches the background probe loop. It returns immediately; the
// loop runs until Stop is called or the context is cancelled. Starting an
// already running prober is a no-op.
func (p *Prober) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	p.logger.Info("health prober started", "interval", p.interval)

	go p.loop(ctx)
}

// Stop halts the probe loop and waits for it to finish.
func (p *Prober) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.logger.Info("health prober stopped")
}

// loop runs probe rounds at the configured interval.
func (p *Prober) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Probe once at startup so aggregates exist before the first tick.
	p.ProbeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProbeAll(ctx)
		}
	}
}

// ProbeAll pings every provider once, serially, recording each result.
func (p *Prober) ProbeAll(ctx context.Context) {
	for name, provider := range p.source.All() {
		if ctx.Err() != nil {
			return
		}
		p.probeOne(ctx, name, provider)
	}
}

// probeOne pings a single provider and records the sample.
func (p *Prober) probeOne(ctx context.Context, name string, provider providers.Provider) {
	result := provider.Ping(ctx)

	sample := Sample{
		Timestamp: time.Now(),
		LatencyMS: result.LatencyMS,
	}
	if result.Status == providers.PingHealthy {
		sample.Status = StatusHealthy
	} else {
		sample.Status = StatusUnhealthy
		sample.LatencyMS = UnhealthyLatencyMS
		sample.ErrorKind = result.ErrorKind
	}

	p.tracker.Record(name, sample)

	if p.OnSample != nil {
		p.OnSample(name, sample, p.tracker.AggregateFor(name))
	}

	p.logger.Debug("probe completed",
		"provider", name,
		"status", sample.Status,
		"latency_ms", result.LatencyMS,
		"error_kind", result.ErrorKind,
	)
}
