// Package telemetry provides observability for Meridian Hermes.
//
// # Overview
//
// The telemetry package implements structured logging and Prometheus
// metrics. It provides visibility into request handling, routing
// decisions, and provider health while keeping per-request overhead low.
//
// # Components
//
//   - logging: slog setup with API key redaction helpers
//   - metrics: Prometheus metrics collection and the /metrics handler
//
// # Usage
//
//	logger, err := logging.Setup(cfg.Telemetry.Logging, nil)
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("acme-corp", "200", time.Since(start))
package telemetry
