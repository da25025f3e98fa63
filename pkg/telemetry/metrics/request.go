package metrics

import (
	"time"

	"meridian-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks gateway-level request metrics.
//
// Metrics:
//   - hermes_requests_total: completed requests by tenant and status code
//   - hermes_request_duration_seconds: request wall time by tenant
//   - hermes_tokens_total: total tokens consumed by tenant
//   - hermes_rate_limited_total: rate limiter rejections by tenant
//   - hermes_quota_exceeded_total: quota rejections by tenant and quota
type RequestMetrics struct {
	// Completed requests by tenant and HTTP status
	requests *prometheus.CounterVec

	// Request wall time histogram by tenant
	duration *prometheus.HistogramVec

	// Total tokens consumed by tenant
	tokens *prometheus.CounterVec

	// Rate limiter rejections by tenant
	rateLimited *prometheus.CounterVec

	// Quota rejections by tenant and quota kind
	quotaExceeded *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the
// provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total completed gateway requests by tenant and HTTP status",
			},
			[]string{"tenant", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Gateway request wall time in seconds",
				// Covers a single fast attempt up to a full failover chain
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30, 60},
			},
			[]string{"tenant"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total tokens consumed by tenant",
			},
			[]string{"tenant"},
		),

		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the per-tenant rate limiter",
			},
			[]string{"tenant"},
		),

		quotaExceeded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "quota_exceeded_total",
				Help:      "Requests rejected by a usage quota, by quota kind",
			},
			[]string{"tenant", "quota"},
		),
	}

	registry.MustRegister(
		rm.requests,
		rm.duration,
		rm.tokens,
		rm.rateLimited,
		rm.quotaExceeded,
	)

	return rm
}

// Record records one completed request.
func (rm *RequestMetrics) Record(tenant, status string, duration time.Duration, tokens int) {
	rm.requests.WithLabelValues(tenant, status).Inc()
	rm.duration.WithLabelValues(tenant).Observe(duration.Seconds())
	if tokens > 0 {
		rm.tokens.WithLabelValues(tenant).Add(float64(tokens))
	}
}

// RecordRateLimited records one rate limiter rejection.
func (rm *RequestMetrics) RecordRateLimited(tenant string) {
	rm.rateLimited.WithLabelValues(tenant).Inc()
}

// RecordQuotaExceeded records one quota rejection.
func (rm *RequestMetrics) RecordQuotaExceeded(tenant, quota string) {
	rm.quotaExceeded.WithLabelValues(tenant, quota).Inc()
}
