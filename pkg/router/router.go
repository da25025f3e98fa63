package router

import (
	"context"
	"log/slog"
	"time"

	"meridian-hq/hermes/pkg/breaker"
	"meridian-hq/hermes/pkg/health"
	"meridian-hq/hermes/pkg/policy"
	"meridian-hq/hermes/pkg/providerfactory"
	"meridian-hq/hermes/pkg/providers"
	"meridian-hq/hermes/pkg/telemetry/metrics"
	"meridian-hq/hermes/pkg/tenant"
)

// Router selects providers for a tenant's request and walks them in
// policy order until one succeeds.
//
// Candidate selection intersects three gates: the tenant's allow-list
// (an empty list allows every loaded provider), the set of currently
// loaded providers, and each provider's circuit breaker. The policy
// engine orders the survivors; the router then tries them sequentially,
// each attempt under its own deadline.
//
// Every attempt outcome feeds both the health tracker and the breaker,
// so routing decisions and user traffic share one view of provider
// health.
//
// # Thread Safety
//
// Router holds no mutable state of its own; all shared state lives in
// the injected components, which are individually safe for concurrent
// use. Route may be called from any number of goroutines.
type Router struct {
	manager        *providerfactory.Manager
	breakers       *breaker.Set
	tracker        *health.Tracker
	engine         *policy.Engine
	collector      *metrics.Collector
	attemptTimeout time.Duration
	logger         *slog.Logger

	// now is the clock, replaceable in tests
	now func() time.Time
}

// Options configures a Router.
type Options struct {
	// AttemptTimeout overrides DefaultAttemptTimeout when positive.
	AttemptTimeout time.Duration

	// Collector receives attempt and breaker metrics. Optional.
	Collector *metrics.Collector
}

// New creates a router over the given provider manager, breaker set,
// health tracker, and policy engine.
func New(manager *providerfactory.Manager, breakers *breaker.Set, tracker *health.Tracker, engine *policy.Engine, opts Options) *Router {
	timeout := opts.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	return &Router{
		manager:        manager,
		breakers:       breakers,
		tracker:        tracker,
		engine:         engine,
		collector:      opts.Collector,
		attemptTimeout: timeout,
		logger:         slog.Default().With("component", "router"),
		now:            time.Now,
	}
}

// Route walks the tenant's candidate providers in policy order and
// returns the first successful response together with the full attempt
// trace. It returns NoProvidersAvailableError when no candidate passes
// the gates and AllProvidersFailedError when every candidate fails.
//
// Quota and rate limit checks happen before Route is called; Route only
// deals in providers.
func (r *Router) Route(ctx context.Context, req *providers.Request, t *tenant.Tenant) (*Result, error) {
	start := r.now()

	candidates := r.candidates(t)
	if len(candidates) == 0 {
		r.logger.Warn("no providers available",
			"tenant", t.ID,
			"policy", t.Policy,
		)
		return nil, &NoProvidersAvailableError{TenantID: t.ID}
	}

	policyName := policy.Normalize(t.Policy)
	ordered := r.engine.Order(policyName, candidates, r.tracker.Snapshot())

	attempts := make([]Attempt, 0, len(ordered))
	var lastKind providers.ErrorKind

	for _, name := range ordered {
		// A cancelled client must not burn further providers.
		if err := ctx.Err(); err != nil {
			lastKind = providers.KindTimeout
			break
		}

		prov, ok := r.manager.Get(name)
		if !ok {
			// Catalog changed between ordering and dispatch.
			continue
		}

		attempt, resp := r.tryProvider(ctx, prov, req)
		attempts = append(attempts, attempt)

		if resp != nil {
			elapsed := r.now().Sub(start)
			r.logger.Info("request routed",
				"tenant", t.ID,
				"provider", name,
				"policy", policyName,
				"attempts", len(attempts),
				"duration_ms", elapsed.Milliseconds(),
			)
			return &Result{
				Response:     resp,
				CostPerToken: prov.Config().CostPerToken,
				Metadata: Metadata{
					PrimaryProvider:       name,
					Attempts:              attempts,
					TotalProcessingTimeMS: elapsed.Milliseconds(),
					APIProcessingTimeMS:   attempt.DurationMS,
					PolicyUsed:            policyName,
					Timestamp:             r.now().UTC(),
					TenantID:              t.ID,
				},
			}, nil
		}

		lastKind = attempt.ErrorKind
		r.logger.Warn("provider attempt failed",
			"tenant", t.ID,
			"provider", name,
			"kind", string(attempt.ErrorKind),
			"duration_ms", attempt.DurationMS,
		)
	}

	r.logger.Error("all providers failed",
		"tenant", t.ID,
		"policy", policyName,
		"attempts", len(attempts),
	)
	return nil, &AllProvidersFailedError{
		TenantID: t.ID,
		Attempts: attempts,
		LastKind: lastKind,
	}
}

// candidates builds the gated candidate list for the tenant. Order does
// not matter here; the policy engine imposes the final order.
func (r *Router) candidates(t *tenant.Tenant) []policy.Candidate {
	allowed := func(name string) bool {
		if len(t.AllowedProviders) == 0 {
			return true
		}
		for _, a := range t.AllowedProviders {
			if a == name {
				return true
			}
		}
		return false
	}

	var out []policy.Candidate
	for name, prov := range r.manager.All() {
		if !allowed(name) {
			continue
		}
		if !r.breakers.Allow(name) {
			continue
		}
		out = append(out, policy.Candidate{
			Name:         name,
			CostPerToken: prov.Config().CostPerToken,
		})
	}
	return out
}

// tryProvider runs one attempt against one provider under the attempt
// deadline, records the outcome in the tracker and breaker, and returns
// the attempt record plus the response (nil on failure).
func (r *Router) tryProvider(ctx context.Context, prov providers.Provider, req *providers.Request) (Attempt, *providers.Response) {
	name := prov.Name()

	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	start := r.now()
	resp, err := prov.MakeRequest(attemptCtx, req)
	elapsed := r.now().Sub(start)

	if err != nil {
		kind := providers.KindOf(err)
		r.tracker.RecordFailure(name, kind)
		r.breakers.RecordFailure(name)
		r.observeAttempt(name, string(AttemptFailed), string(kind), elapsed)

		return Attempt{
			Provider:   name,
			Status:     AttemptFailed,
			DurationMS: elapsed.Milliseconds(),
			ErrorKind:  kind,
			Error:      attemptErrorSummary(kind),
		}, nil
	}

	r.tracker.RecordSuccess(name, elapsed)
	r.breakers.RecordSuccess(name)
	r.observeAttempt(name, string(AttemptSuccess), "", elapsed)

	return Attempt{
		Provider:   name,
		Status:     AttemptSuccess,
		DurationMS: elapsed.Milliseconds(),
	}, resp
}

// observeAttempt publishes attempt metrics and the breaker state that
// resulted from the attempt.
func (r *Router) observeAttempt(provider, status, kind string, elapsed time.Duration) {
	if r.collector == nil {
		return
	}
	r.collector.RecordAttempt(provider, status, kind, elapsed)
	r.collector.SetBreakerState(provider, string(r.breakers.Get(provider).State()))
}

// attemptErrorSummary maps a failure classification to the short
// description carried in the attempt trace. Upstream error bodies never
// reach clients.
func attemptErrorSummary(kind providers.ErrorKind) string {
	switch kind {
	case providers.KindInvalidCredential:
		return "upstream rejected credentials"
	case providers.KindRateLimited:
		return "upstream rate limited"
	case providers.KindUnavailable:
		return "upstream unavailable"
	case providers.KindTimeout:
		return "attempt timed out"
	case providers.KindMalformed:
		return "upstream returned malformed response"
	default:
		return "upstream request failed"
	}
}
