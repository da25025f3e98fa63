// Package router implements policy-driven provider selection with
// sequential failover.
//
// For each request the router builds a candidate list (tenant allow-list
// intersected with loaded providers and open circuit breakers), asks the
// policy engine to order it, and tries the candidates one at a time.
// Each attempt runs under its own deadline; the first success wins and
// carries the full attempt trace in its metadata. When every candidate
// fails, the caller receives AllProvidersFailedError with the same
// trace.
//
// The router is also where attempt outcomes are fed back into the health
// tracker and circuit breakers, closing the loop between observed
// provider behavior and future routing decisions.
package router
