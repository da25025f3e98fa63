package metrics

import (
	"time"

	"meridian-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector is the main orchestrator for all Prometheus metrics in
// Meridian Hermes. It owns the registry and provides a unified recording
// interface for the gateway, router, and health subsystems.
//
// Label cardinality is bounded by construction: tenant and provider
// labels only ever take values from the loaded configuration, and status
// labels come from small fixed enumerations.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Gateway request metrics
	requestMetrics *RequestMetrics

	// Router attempt and breaker metrics
	routerMetrics *RouterMetrics

	// Provider health metrics
	providerMetrics *ProviderMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created and seeded with the standard Go runtime and
// process collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.routerMetrics = NewRouterMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// enabled reports whether metric recording is active.
func (c *Collector) enabled() bool {
	return c.config.Enabled == nil || *c.config.Enabled
}

// RecordRequest records a completed gateway request.
//
// Parameters:
//   - tenant: tenant ID, or "unknown" for unauthenticated requests
//   - status: HTTP status code as a string (e.g., "200", "502")
//   - duration: total request wall time
//   - tokens: total tokens consumed (0 for failed requests)
func (c *Collector) RecordRequest(tenant, status string, duration time.Duration, tokens int) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.Record(tenant, status, duration, tokens)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited(tenant string) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRateLimited(tenant)
}

// RecordQuotaExceeded records a request rejected by a usage quota.
// The quota label names the exhausted quota (e.g., "daily_requests").
func (c *Collector) RecordQuotaExceeded(tenant, quota string) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordQuotaExceeded(tenant, quota)
}

// RecordAttempt records one provider attempt inside the failover chain.
// Status is "success" or "failed"; kind classifies the failure and is
// empty on success.
func (c *Collector) RecordAttempt(provider, status, kind string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.routerMetrics.RecordAttempt(provider, status, kind, duration)
}

// SetBreakerState publishes a provider's circuit breaker state.
// State is "closed", "open", or "half_open".
func (c *Collector) SetBreakerState(provider, state string) {
	if !c.enabled() {
		return
	}
	c.routerMetrics.SetBreakerState(provider, state)
}

// RecordProbe records one background health probe outcome.
// Status is "healthy" or "unhealthy".
func (c *Collector) RecordProbe(provider, status string) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.RecordProbe(provider, status)
}

// SetProviderHealth publishes a provider's aggregated health view:
// trailing-window uptime ratio and average healthy latency.
func (c *Collector) SetProviderHealth(provider string, uptime, avgLatencyMS float64) {
	if !c.enabled() {
		return
	}
	c.providerMetrics.SetHealth(provider, uptime, avgLatencyMS)
}

// RemoveProvider drops all per-provider series for a provider that was
// removed from the catalog, so stale gauges do not linger.
func (c *Collector) RemoveProvider(provider string) {
	c.routerMetrics.RemoveProvider(provider)
	c.providerMetrics.RemoveProvider(provider)
}
