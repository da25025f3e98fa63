package metrics

import (
	"meridian-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks provider health as seen by the health tracker
// and the background prober.
//
// Metrics:
//   - hermes_provider_uptime_ratio: trailing-window uptime per provider
//   - hermes_provider_latency_ms: average healthy latency per provider
//   - hermes_probes_total: background probe outcomes by provider and status
type ProviderMetrics struct {
	// Trailing-window uptime ratio (0.0 to 1.0)
	uptime *prometheus.GaugeVec

	// Average latency over healthy samples, in milliseconds
	latency *prometheus.GaugeVec

	// Background probe outcomes
	probes *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider health metrics with
// the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		uptime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_uptime_ratio",
				Help:      "Trailing-window uptime ratio per provider (0.0 to 1.0)",
			},
			[]string{"provider"},
		),

		latency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_ms",
				Help:      "Average latency over healthy samples, in milliseconds",
			},
			[]string{"provider"},
		),

		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "probes_total",
				Help:      "Background health probe outcomes by provider and status",
			},
			[]string{"provider", "status"},
		),
	}

	registry.MustRegister(
		pm.uptime,
		pm.latency,
		pm.probes,
	)

	return pm
}

// SetHealth publishes the aggregated health view for a provider.
func (pm *ProviderMetrics) SetHealth(provider string, uptime, avgLatencyMS float64) {
	pm.uptime.WithLabelValues(provider).Set(uptime)
	pm.latency.WithLabelValues(provider).Set(avgLatencyMS)
}

// RecordProbe records one probe outcome.
func (pm *ProviderMetrics) RecordProbe(provider, status string) {
	pm.probes.WithLabelValues(provider, status).Inc()
}

// RemoveProvider drops all series for the provider.
func (pm *ProviderMetrics) RemoveProvider(provider string) {
	pm.uptime.DeleteLabelValues(provider)
	pm.latency.DeleteLabelValues(provider)
	pm.probes.DeletePartialMatch(prometheus.Labels{"provider": provider})
}
