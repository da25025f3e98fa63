// Package ratelimit implements the per-tenant fixed-window rate limiter.
//
// Each tenant gets an independent window (default 60s) whose budget comes
// from the tenant's configured rate_limit_per_minute. A request that
// overflows the window is rejected with the window's reset time, which
// the HTTP layer surfaces as status 429 with X-RateLimit-* headers.
//
// A cron-scheduled Sweeper evicts entries whose window has expired so the
// map stays bounded under churny key sets.
package ratelimit
