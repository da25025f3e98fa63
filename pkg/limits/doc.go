// Package limits groups the request limiting layers of the gateway.
//
// # Overview
//
// Every request passes through two independent checks before it reaches
// the router:
//
//   - Rate limiting: a fixed window counter per tenant, keyed by tenant
//     ID, with X-RateLimit-* headers on every response.
//   - Usage quotas: daily and monthly request ceilings tracked by the
//     tenant registry (see the tenant package).
//
// # Sub-packages
//
//   - ratelimit: fixed window rate limiter with a cron-driven sweeper
//     that evicts expired windows.
package limits
