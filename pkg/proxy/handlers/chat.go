package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"meridian-hq/hermes/pkg/audit"
	"meridian-hq/hermes/pkg/limits/ratelimit"
	"meridian-hq/hermes/pkg/proxy"
	"meridian-hq/hermes/pkg/proxy/middleware"
	"meridian-hq/hermes/pkg/proxy/types"
	"meridian-hq/hermes/pkg/router"
	"meridian-hq/hermes/pkg/telemetry/metrics"
	"meridian-hq/hermes/pkg/tenant"
)

// unknownTenant labels metrics for requests that never authenticated.
const unknownTenant = "unknown"

// ChatHandler serves POST /v1/chat/completions.
//
// The request pipeline short-circuits in a fixed order before any
// provider is touched: authentication, rate limit, body validation,
// quota. Only requests that clear all four reach the router, and only
// those count toward tenant usage.
type ChatHandler struct {
	registry  *tenant.Registry
	limiter   *ratelimit.Limiter
	router    *router.Router
	collector *metrics.Collector
	recorder  *audit.Recorder

	maxBodyBytes int64
	logger       *slog.Logger
}

// ChatHandlerOptions configures a ChatHandler.
type ChatHandlerOptions struct {
	// MaxBodyBytes caps the request body size. Non-positive values use
	// the 10MB default.
	MaxBodyBytes int64

	// Collector receives request metrics. Optional.
	Collector *metrics.Collector

	// Recorder receives audit records. Optional.
	Recorder *audit.Recorder
}

// NewChatHandler creates the chat completion handler.
func NewChatHandler(registry *tenant.Registry, limiter *ratelimit.Limiter, rt *router.Router, opts ChatHandlerOptions) *ChatHandler {
	return &ChatHandler{
		registry:     registry,
		limiter:      limiter,
		router:       rt,
		collector:    opts.Collector,
		recorder:     opts.Recorder,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       slog.Default().With("component", "handlers.chat"),
	}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.reject(w, r, start, unknownTenant, types.ErrorTypeValidation,
			types.NewErrorResponse(types.ErrorTypeValidation, "method not allowed, use POST"), "")
		return
	}

	// Authentication
	key := proxy.ExtractAPIKey(r)
	if key == "" {
		h.reject(w, r, start, unknownTenant, types.ErrorTypeAuthentication,
			types.NewErrorResponse(types.ErrorTypeAuthentication, "missing or malformed Authorization header"), "")
		return
	}
	t, ok := h.registry.FindByAPIKey(key)
	if !ok {
		h.reject(w, r, start, unknownTenant, types.ErrorTypeAuthentication,
			types.NewErrorResponse(types.ErrorTypeAuthentication, "invalid API key"), "")
		return
	}

	ctx := middleware.WithTenantID(r.Context(), t.ID)
	r = r.WithContext(ctx)

	// Rate limit
	decision := h.limiter.Allow(t.ID, h.registry.RateLimitFor(t))
	proxy.SetRateLimitHeaders(w, decision)
	if !decision.Allowed {
		if h.collector != nil {
			h.collector.RecordRateLimited(t.ID)
		}
		h.reject(w, r, start, t.ID, types.ErrorTypeRateLimited,
			types.NewErrorResponse(types.ErrorTypeRateLimited, "rate limit exceeded, retry after the window resets"), "")
		return
	}

	// Validation
	req, errResp := proxy.ParseChatCompletionRequest(r, h.maxBodyBytes)
	if errResp != nil {
		h.reject(w, r, start, t.ID, types.ErrorTypeValidation, errResp, "")
		return
	}

	// Quotas. Blocked requests never count toward usage.
	for _, kind := range []tenant.QuotaKind{tenant.QuotaDaily, tenant.QuotaMonthly} {
		status, err := h.registry.CheckQuota(t.ID, kind)
		if err != nil {
			h.logger.Error("quota check failed", "tenant", t.ID, "error", err)
			h.reject(w, r, start, t.ID, types.ErrorTypeInternal,
				types.NewErrorResponse(types.ErrorTypeInternal, "an internal error occurred"), req.Model)
			return
		}
		if !status.Allowed {
			if h.collector != nil {
				h.collector.RecordQuotaExceeded(t.ID, string(kind))
			}
			h.reject(w, r, start, t.ID, types.ErrorTypeQuotaExceeded,
				types.NewErrorResponse(types.ErrorTypeQuotaExceeded,
					quotaMessage(status)).WithDetails(map[string]interface{}{
					"quota": string(status.Kind),
					"used":  status.Used,
					"limit": status.Limit,
				}), req.Model)
			return
		}
	}

	// Route
	result, err := h.router.Route(ctx, proxy.ToProviderRequest(req), &t)
	if err != nil {
		errType, envelope := proxy.MapRoutingError(err)

		// Routed-but-failed requests still consumed provider attempts,
		// so they count toward request quotas (with no tokens).
		if errType == types.ErrorTypeAllProvidersFailed {
			h.trackUsage(t.ID, req.Model, 0, time.Since(start), 0)
		}

		h.writeOutcome(w, r, start, t.ID, errType, envelope, req.Model, routingAttempts(err))
		return
	}

	resp := proxy.FormatChatCompletionResponse(result)
	h.trackUsage(t.ID, req.Model, resp.Usage.TotalTokens, time.Since(start), costOf(result))

	if h.collector != nil {
		h.collector.RecordRequest(t.ID, strconv.Itoa(http.StatusOK), time.Since(start), resp.Usage.TotalTokens)
	}
	h.audit(r, &audit.Record{
		RequestID:   middleware.GetRequestID(r.Context()),
		TenantID:    t.ID,
		Outcome:     audit.OutcomeSuccess,
		StatusCode:  http.StatusOK,
		Provider:    result.Metadata.PrimaryProvider,
		Policy:      result.Metadata.PolicyUsed,
		Model:       req.Model,
		Attempts:    auditAttempts(result.Metadata.Attempts),
		TotalTokens: resp.Usage.TotalTokens,
		DurationMS:  time.Since(start).Milliseconds(),
	})

	proxy.WriteJSON(w, http.StatusOK, resp)
}

// trackUsage records a routed request against the tenant's counters.
func (h *ChatHandler) trackUsage(tenantID, model string, tokens int, elapsed time.Duration, cost float64) {
	_, err := h.registry.TrackUsage(tenantID, tenant.Record{
		TotalTokens:   int64(tokens),
		DurationMS:    elapsed.Milliseconds(),
		Model:         model,
		EstimatedCost: cost,
	})
	if err != nil {
		h.logger.Error("usage tracking failed", "tenant", tenantID, "error", err)
	}
}

// reject writes an error response for a request that short-circuited
// before routing.
func (h *ChatHandler) reject(w http.ResponseWriter, r *http.Request, start time.Time, tenantID string, errType types.ErrorType, envelope *types.ErrorResponse, model string) {
	h.writeOutcome(w, r, start, tenantID, errType, envelope, model, nil)
}

// writeOutcome writes an error envelope and records metrics and audit
// for the failed or rejected request.
func (h *ChatHandler) writeOutcome(w http.ResponseWriter, r *http.Request, start time.Time, tenantID string, errType types.ErrorType, envelope *types.ErrorResponse, model string, attempts []audit.AttemptTrace) {
	status := errType.StatusCode()

	if h.collector != nil {
		h.collector.RecordRequest(tenantID, strconv.Itoa(status), time.Since(start), 0)
	}

	outcome := audit.OutcomeRejected
	if errType == types.ErrorTypeAllProvidersFailed || errType == types.ErrorTypeNoProviders {
		outcome = audit.OutcomeFailed
	}
	auditTenant := tenantID
	if auditTenant == unknownTenant {
		auditTenant = ""
	}
	h.audit(r, &audit.Record{
		RequestID:  middleware.GetRequestID(r.Context()),
		TenantID:   auditTenant,
		Outcome:    outcome,
		StatusCode: status,
		ErrorType:  errType.Wire(),
		Model:      model,
		Attempts:   attempts,
		DurationMS: time.Since(start).Milliseconds(),
	})

	proxy.WriteError(w, errType, envelope)
}

// audit enqueues a record when auditing is enabled.
func (h *ChatHandler) audit(r *http.Request, rec *audit.Record) {
	if h.recorder == nil {
		return
	}
	h.recorder.Record(rec)
}

// quotaMessage phrases the quota rejection for the client.
func quotaMessage(status tenant.QuotaStatus) string {
	if status.Kind == tenant.QuotaMonthly {
		return "monthly request quota exhausted"
	}
	return "daily request quota exhausted"
}

// costOf estimates the request cost from the winning provider's
// per-token rate.
func costOf(result *router.Result) float64 {
	return float64(result.Response.Usage.TotalTokens) * result.CostPerToken
}

// routingAttempts extracts the attempt trace from a routing failure for
// auditing.
func routingAttempts(err error) []audit.AttemptTrace {
	if failed, ok := err.(*router.AllProvidersFailedError); ok {
		return auditAttempts(failed.Attempts)
	}
	return nil
}

// auditAttempts converts router attempts into audit traces.
func auditAttempts(attempts []router.Attempt) []audit.AttemptTrace {
	out := make([]audit.AttemptTrace, len(attempts))
	for i, a := range attempts {
		out[i] = audit.AttemptTrace{
			Provider:   a.Provider,
			Status:     string(a.Status),
			DurationMS: a.DurationMS,
			ErrorKind:  string(a.ErrorKind),
		}
	}
	return out
}

// ensure the handler satisfies http.Handler
var _ http.Handler = (*ChatHandler)(nil)
