package handlers

import (
	"net/http"
	"time"

	"meridian-hq/hermes/pkg/breaker"
	"meridian-hq/hermes/pkg/health"
	"meridian-hq/hermes/pkg/providerfactory"
	"meridian-hq/hermes/pkg/proxy"
	"meridian-hq/hermes/pkg/proxy/types"
	"meridian-hq/hermes/pkg/tenant"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	manager  *providerfactory.Manager
	tracker  *health.Tracker
	breakers *breaker.Set
	registry *tenant.Registry
	started  time.Time
	version  string
}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler(manager *providerfactory.Manager, tracker *health.Tracker, breakers *breaker.Set, registry *tenant.Registry, version string) *HealthHandler {
	return &HealthHandler{
		manager:  manager,
		tracker:  tracker,
		breakers: breakers,
		registry: registry,
		started:  time.Now(),
		version:  version,
	}
}

// Liveness serves GET /health. It answers 200 whenever the process is
// up; no dependencies are consulted.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  int64(time.Since(h.started).Seconds()),
	})
}

// providerStatus is the per-provider section of the readiness payload.
type providerStatus struct {
	Uptime              float64 `json:"uptime"`
	AvgLatencyMS        float64 `json:"avg_latency_ms"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	BreakerState        string  `json:"breaker_state"`
	Available           bool    `json:"available"`
}

// Detailed serves GET /health/detailed. The response is 200 while at
// least one provider is available (breaker not open) and 503 otherwise.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	statuses, available := h.providerStatuses()

	status := "ok"
	code := http.StatusOK
	if available == 0 {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	proxy.WriteJSON(w, code, map[string]interface{}{
		"status":              status,
		"version":             h.version,
		"uptime":              int64(time.Since(h.started).Seconds()),
		"providers":           statuses,
		"providers_available": available,
	})
}

// Providers serves GET /v1/health/providers. It requires a valid tenant
// API key and returns the full provider, health, and breaker view.
func (h *HealthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	key := proxy.ExtractAPIKey(r)
	if key == "" {
		proxy.WriteError(w, types.ErrorTypeAuthentication,
			types.NewErrorResponse(types.ErrorTypeAuthentication, "missing or malformed Authorization header"))
		return
	}
	if _, ok := h.registry.FindByAPIKey(key); !ok {
		proxy.WriteError(w, types.ErrorTypeAuthentication,
			types.NewErrorResponse(types.ErrorTypeAuthentication, "invalid API key"))
		return
	}

	names := h.manager.Names()
	aggregates := h.tracker.Snapshot(names...)
	snapshots := h.breakers.Snapshots()

	out := make(map[string]interface{}, len(names))
	for _, name := range names {
		agg := aggregates[name]
		entry := map[string]interface{}{
			"uptime":               agg.Uptime,
			"avg_latency_ms":       agg.AvgLatencyMS,
			"consecutive_failures": agg.ConsecutiveFailures,
			"samples":              agg.SampleCount,
		}
		if snap, ok := snapshots[name]; ok {
			entry["breaker"] = snap
		} else {
			entry["breaker"] = h.breakers.Get(name).Snapshot()
		}
		out[name] = entry
	}

	proxy.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"providers": out,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// providerStatuses summarizes every loaded provider and counts how many
// are currently available to the router.
func (h *HealthHandler) providerStatuses() (map[string]providerStatus, int) {
	names := h.manager.Names()
	aggregates := h.tracker.Snapshot(names...)

	statuses := make(map[string]providerStatus, len(names))
	available := 0
	for _, name := range names {
		agg := aggregates[name]
		snap := h.breakers.Get(name).Snapshot()

		// Read-only availability view. The real open-to-half-open
		// transition happens in the router, not here.
		ok := snap.State != breaker.StateOpen || !time.Now().Before(snap.NextAttemptTime)
		if ok {
			available++
		}
		statuses[name] = providerStatus{
			Uptime:              agg.Uptime,
			AvgLatencyMS:        agg.AvgLatencyMS,
			ConsecutiveFailures: agg.ConsecutiveFailures,
			BreakerState:        string(snap.State),
			Available:           ok,
		}
	}
	return statuses, available
}
