package metrics

import (
	"time"

	"meridian-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Numeric encoding of circuit breaker states for the state gauge.
const (
	breakerStateClosed   = 0
	breakerStateHalfOpen = 1
	breakerStateOpen     = 2
)

// RouterMetrics tracks failover router and circuit breaker metrics.
//
// Metrics:
//   - hermes_attempts_total: provider attempts by provider, status, and error kind
//   - hermes_attempt_duration_seconds: attempt latency by provider
//   - hermes_breaker_state: breaker state per provider (0=closed, 1=half_open, 2=open)
type RouterMetrics struct {
	// Provider attempts by provider, status, and error kind
	attempts *prometheus.CounterVec

	// Attempt latency histogram by provider
	attemptDuration *prometheus.HistogramVec

	// Breaker state gauge per provider
	breakerState *prometheus.GaugeVec
}

// NewRouterMetrics creates and registers router metrics with the
// provided registry.
func NewRouterMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RouterMetrics {
	rm := &RouterMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "attempts_total",
				Help:      "Provider attempts by provider, status, and error kind",
			},
			[]string{"provider", "status", "kind"},
		),

		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "attempt_duration_seconds",
				Help:      "Single provider attempt latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"provider"},
		),

		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "breaker_state",
				Help:      "Circuit breaker state per provider (0=closed, 1=half_open, 2=open)",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		rm.attempts,
		rm.attemptDuration,
		rm.breakerState,
	)

	return rm
}

// RecordAttempt records one provider attempt. Kind is empty on success;
// the empty label value keeps success series distinct from failures.
func (rm *RouterMetrics) RecordAttempt(provider, status, kind string, duration time.Duration) {
	rm.attempts.WithLabelValues(provider, status, kind).Inc()
	rm.attemptDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetBreakerState publishes the breaker state for a provider.
func (rm *RouterMetrics) SetBreakerState(provider, state string) {
	var v float64
	switch state {
	case "open":
		v = breakerStateOpen
	case "half_open":
		v = breakerStateHalfOpen
	default:
		v = breakerStateClosed
	}
	rm.breakerState.WithLabelValues(provider).Set(v)
}

// RemoveProvider drops all series for the provider.
func (rm *RouterMetrics) RemoveProvider(provider string) {
	rm.attempts.DeletePartialMatch(prometheus.Labels{"provider": provider})
	rm.attemptDuration.DeleteLabelValues(provider)
	rm.breakerState.DeleteLabelValues(provider)
}
