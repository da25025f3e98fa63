// Package tenant implements the multi-tenant model: API-key
// authentication, quota accounting, and usage tracking.
//
// The Registry maps API keys to tenants through a precomputed reverse
// index, answers quota checks (applying the 24h daily-reset rule on
// read), and records usage after each successful request. Usage counters
// live behind the UsageStore contract with two implementations: the
// in-memory default, and a SQLite store for deployments that need
// counters to survive restarts.
//
// Quota checks never increment counters; a request blocked by quota or
// rate limit is not counted.
package tenant
