// Package metrics provides Prometheus instrumentation for the gateway.
//
// A single Collector owns the registry and exposes recording methods for
// the three instrumented planes:
//
//   - gateway requests (counts, latency, tokens, rejections) by tenant
//   - router attempts and circuit breaker state by provider
//   - provider health (uptime, latency, probe outcomes)
//
// All label values are drawn from loaded configuration or small fixed
// enumerations, keeping series cardinality bounded without a runtime
// limiter.
package metrics
