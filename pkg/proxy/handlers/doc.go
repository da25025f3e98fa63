// Package handlers implements the gateway's HTTP endpoints.
//
// ChatHandler is the request pipeline for POST /v1/chat/completions:
// authenticate, rate limit, validate, check quotas, route, account.
// HealthHandler serves the liveness, readiness, and provider health
// endpoints.
package handlers
