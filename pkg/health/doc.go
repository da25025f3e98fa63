// Package health tracks per-provider health history and derives the
// aggregates that feed routing decisions.
//
// Each provider has a bounded ring buffer of the last 100 samples. Every
// in-line request attempt and every periodic probe records one sample.
// Aggregates (uptime, average latency of healthy samples, consecutive
// failures) are computed over the trailing 20 samples on read.
//
// The Prober runs a background loop (default every 300s) that pings each
// loaded provider with a tiny synthetic completion and records the result,
// so health data exists even for providers that receive no live traffic.
package health
