package health

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"meridian-hq/hermes/pkg/providers"
)

// Tracker parameters.
const (
	// HistorySize is the ring buffer capacity per provider.
	HistorySize = 100

	// AggregateWindow is how many trailing samples feed the aggregates.
	AggregateWindow = 20

	// UnhealthyLatencyMS is the sentinel latency recorded for failed
	// samples. It never feeds avg_latency, which only averages healthy
	// samples.
	UnhealthyLatencyMS = 999999

	// FallbackLatencyMS is reported when the window holds no healthy
	// samples yet.
	FallbackLatencyMS = 200

	// consecutiveFailureWarn is the consecutive-failure count that
	// triggers a warning log.
	consecutiveFailureWarn = 3
)

// Status is a health sample's outcome.
type Status string

const (
	// StatusHealthy marks a successful attempt or probe.
	StatusHealthy Status = "healthy"

	// StatusUnhealthy marks a failed attempt or probe.
	StatusUnhealthy Status = "unhealthy"
)

// Sample is one health observation for a provider, produced by either an
// in-line request attempt or a periodic probe.
type Sample struct {
	// Timestamp is when the observation was made
	Timestamp time.Time `json:"timestamp"`

	// Status is healthy or unhealthy
	Status Status `json:"status"`

	// LatencyMS is the observed latency; UnhealthyLatencyMS for failures
	LatencyMS int64 `json:"latency_ms"`

	// ErrorKind classifies the failure for unhealthy samples
	ErrorKind providers.ErrorKind `json:"error_kind,omitempty"`
}

// Aggregate is the derived health view for a provider, computed over the
// trailing AggregateWindow samples.
type Aggregate struct {
	// Uptime is the healthy fraction in [0,1] over the window; 1.0 when
	// no samples exist yet
	Uptime float64 `json:"uptime"`

	// AvgLatencyMS is the mean latency of healthy samples in the window;
	// FallbackLatencyMS when the window holds no healthy samples
	AvgLatencyMS float64 `json:"avg_latency_ms"`

	// ConsecutiveFailures counts unhealthy samples since the last
	// healthy one
	ConsecutiveFailures int `json:"consecutive_failures"`

	// SampleCount is the total samples currently held (≤ HistorySize)
	SampleCount int `json:"sample_count"`

	// LastSample is the timestamp of the newest sample (zero when empty)
	LastSample time.Time `json:"last_sample,omitempty"`
}

// history is the per-provider ring buffer. Each history has its own mutex
// so providers never contend with each other.
type history struct {
	mu sync.Mutex

	// samples is a fixed-capacity ring; next is the write position and
	// size grows until it reaches HistorySize
	samples [HistorySize]Sample
	next    int
	size    int

	consecutiveFailures int
}

// Tracker maintains a bounded rolling health history per provider and
// derives uptime and latency aggregates from it.
//
// # Thread Safety
//
// The provider map is guarded by an RWMutex; each provider's ring buffer
// has its own mutex. Record and aggregate reads never hold a lock across
// provider calls.
type Tracker struct {
	mu        sync.RWMutex
	histories map[string]*history
	logger    *slog.Logger
}

// NewTracker creates an empty health tracker.
func NewTracker() *Tracker {
	return &Tracker{
		histories: make(map[string]*history),
		logger:    slog.Default().With("component", "health.tracker"),
	}
}

// historyFor returns the ring buffer for a provider, creating it on first
// sample.
func (t *Tracker) historyFor(provider string) *history {
	t.mu.RLock()
	h, ok := t.histories[provider]
	t.mu.RUnlock()
	if ok {
		return h
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.histories[provider]; ok {
		return h
	}
	h = &history{}
	t.histories[provider] = h
	return h
}

// Record appends a health sample for a provider, evicting the oldest
// sample once the ring is full. Every request attempt and every probe
// outcome flows through here.
func (t *Tracker) Record(provider string, sample Sample) {
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}
	if sample.Status == StatusUnhealthy && sample.LatencyMS == 0 {
		sample.LatencyMS = UnhealthyLatencyMS
	}

	h := t.historyFor(provider)
	h.mu.Lock()

	h.samples[h.next] = sample
	h.next = (h.next + 1) % HistorySize
	if h.size < HistorySize {
		h.size++
	}

	var warn, recovered bool
	if sample.Status == StatusHealthy {
		recovered = h.consecutiveFailures > 0
		h.consecutiveFailures = 0
	} else {
		h.consecutiveFailures++
		warn = h.consecutiveFailures == consecutiveFailureWarn
	}
	failures := h.consecutiveFailures

	h.mu.Unlock()

	if warn {
		t.logger.Warn("provider failing consecutively",
			"provider", provider,
			"consecutive_failures", failures,
			"error_kind", sample.ErrorKind,
		)
	}
	if recovered {
		t.logger.Info("provider recovered",
			"provider", provider,
			"latency_ms", sample.LatencyMS,
		)
	}
}

// RecordSuccess is a convenience wrapper for a healthy sample.
func (t *Tracker) RecordSuccess(provider string, latency time.Duration) {
	t.Record(provider, Sample{
		Status:    StatusHealthy,
		LatencyMS: latency.Milliseconds(),
	})
}

// RecordFailure is a convenience wrapper for an unhealthy sample.
func (t *Tracker) RecordFailure(provider string, kind providers.ErrorKind) {
	t.Record(provider, Sample{
		Status:    StatusUnhealthy,
		LatencyMS: UnhealthyLatencyMS,
		ErrorKind: kind,
	})
}

// AggregateFor computes the health aggregate for one provider.
// A provider with no recorded samples reports uptime 1.0 and the fallback
// latency, so new providers are eligible for routing immediately.
func (t *Tracker) AggregateFor(provider string) Aggregate {
	t.mu.RLock()
	h, ok := t.histories[provider]
	t.mu.RUnlock()
	if !ok {
		return Aggregate{
			Uptime:       1.0,
			AvgLatencyMS: FallbackLatencyMS,
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.aggregateLocked()
}

// aggregateLocked derives the aggregate over the trailing window.
// Caller must hold the history mutex.
func (h *history) aggregateLocked() Aggregate {
	agg := Aggregate{
		Uptime:              1.0,
		AvgLatencyMS:        FallbackLatencyMS,
		ConsecutiveFailures: h.consecutiveFailures,
		SampleCount:         h.size,
	}

	if h.size == 0 {
		return agg
	}

	window := h.size
	if window > AggregateWindow {
		window = AggregateWindow
	}

	healthy := 0
	var latencySum int64
	latencyCount := 0

	// Walk the trailing window backwards from the newest sample.
	for i := 0; i < window; i++ {
		idx := (h.next - 1 - i + HistorySize) % HistorySize
		s := h.samples[idx]

		if i == 0 {
			agg.LastSample = s.Timestamp
		}

		if s.Status == StatusHealthy {
			healthy++
			latencySum += s.LatencyMS
			latencyCount++
		}
	}

	agg.Uptime = float64(healthy) / float64(window)
	if latencyCount > 0 {
		agg.AvgLatencyMS = float64(latencySum) / float64(latencyCount)
	}

	return agg
}

// Snapshot returns aggregates for every tracked provider plus the given
// extra names (providers that exist but have no samples yet). The result
// is a copy; no tracker lock is held by the caller afterwards.
func (t *Tracker) Snapshot(extra ...string) map[string]Aggregate {
	t.mu.RLock()
	seen := make(map[string]bool, len(t.histories)+len(extra))
	names := make([]string, 0, len(t.histories)+len(extra))
	for name := range t.histories {
		seen[name] = true
		names = append(names, name)
	}
	t.mu.RUnlock()

	for _, name := range extra {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make(map[string]Aggregate, len(names))
	for _, name := range names {
		out[name] = t.AggregateFor(name)
	}
	return out
}

// Remove drops the history for a provider that no longer exists.
func (t *Tracker) Remove(provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.histories, provider)
}
