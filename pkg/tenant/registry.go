package tenant

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultRateLimitPerMinute is used when a tenant's quotas do not set one.
const DefaultRateLimitPerMinute = 100

// Registry owns the tenant set and their usage counters.
//
// Lookup by API key goes through a precomputed reverse index, so
// authentication is a single map read under a shared lock. The tenant set
// is replaced wholesale on hot reload; per-request code never mutates it.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]Tenant
	byKey   map[string]string // API key -> tenant ID

	store UsageStore
	now   func() time.Time
}

// NewRegistry creates a registry over the given usage store.
// A nil store gets the in-memory default.
func NewRegistry(store UsageStore) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Registry{
		tenants: make(map[string]Tenant),
		byKey:   make(map[string]string),
		store:   store,
		now:     time.Now,
	}
}

// Replace atomically swaps in a new tenant set and rebuilds the reverse
// key index. Duplicate tenant IDs or API keys shared across tenants are
// configuration errors and reject the whole set.
func (r *Registry) Replace(tenants []Tenant) error {
	nextTenants := make(map[string]Tenant, len(tenants))
	nextKeys := make(map[string]string)

	for _, t := range tenants {
		if t.ID == "" {
			return fmt.Errorf("tenant with empty tenant_id")
		}
		if _, ok := nextTenants[t.ID]; ok {
			return fmt.Errorf("duplicate tenant_id %q", t.ID)
		}
		nextTenants[t.ID] = t

		for _, key := range t.APIKeys {
			if key == "" {
				return fmt.Errorf("tenant %q has an empty API key", t.ID)
			}
			if owner, ok := nextKeys[key]; ok {
				return fmt.Errorf("API key shared between tenants %q and %q", owner, t.ID)
			}
			nextKeys[key] = t.ID
		}
	}

	r.mu.Lock()
	r.tenants = nextTenants
	r.byKey = nextKeys
	r.mu.Unlock()

	slog.Info("tenant set loaded",
		"tenants", len(nextTenants),
		"api_keys", len(nextKeys),
	)
	return nil
}

// FindByAPIKey resolves an API key to its tenant.
// Unknown keys return ok=false; the caller surfaces 401.
func (r *Registry) FindByAPIKey(key string) (Tenant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key]
	if !ok {
		return Tenant{}, false
	}
	t, ok := r.tenants[id]
	return t, ok
}

// Get returns a tenant by ID.
func (r *Registry) Get(id string) (Tenant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	return t, ok
}

// IDs returns the sorted tenant IDs.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckQuota reports whether the tenant is under the named quota.
// The read applies the daily-reset rule but never increments anything;
// a blocked request is not counted.
func (r *Registry) CheckQuota(tenantID string, kind QuotaKind) (QuotaStatus, error) {
	t, ok := r.Get(tenantID)
	if !ok {
		return QuotaStatus{}, fmt.Errorf("unknown tenant %q", tenantID)
	}

	usage, err := r.store.Get(tenantID, r.now())
	if err != nil {
		return QuotaStatus{}, fmt.Errorf("failed to read usage for tenant %q: %w", tenantID, err)
	}

	status := QuotaStatus{Kind: kind, Allowed: true}

	switch kind {
	case QuotaDaily:
		status.Used = usage.DailyRequests
		status.Limit = t.Quotas.DailyRequests
	case QuotaMonthly:
		status.Used = usage.MonthlyRequests
		status.Limit = t.Quotas.MonthlyRequests
	default:
		return QuotaStatus{}, fmt.Errorf("unknown quota kind %q", kind)
	}

	if status.Limit > 0 {
		status.Allowed = status.Used < status.Limit
		status.Remaining = status.Limit - status.Used
		if status.Remaining < 0 {
			status.Remaining = 0
		}
	}

	return status, nil
}

// TrackUsage records one completed request against the tenant's counters.
func (r *Registry) TrackUsage(tenantID string, rec Record) (Usage, error) {
	usage, err := r.store.Track(tenantID, rec, r.now())
	if err != nil {
		return Usage{}, fmt.Errorf("failed to track usage for tenant %q: %w", tenantID, err)
	}

	slog.Debug("usage tracked",
		"tenant_id", tenantID,
		"total_tokens", rec.TotalTokens,
		"daily_requests", usage.DailyRequests,
	)
	return usage, nil
}

// UsageFor returns the tenant's current usage.
func (r *Registry) UsageFor(tenantID string) (Usage, error) {
	return r.store.Get(tenantID, r.now())
}

// RateLimitFor returns the tenant's per-minute rate limit, applying the
// default when unset.
func (r *Registry) RateLimitFor(t Tenant) int {
	if t.Quotas.RateLimitPerMinute > 0 {
		return t.Quotas.RateLimitPerMinute
	}
	return DefaultRateLimitPerMinute
}

// Close closes the underlying usage store.
func (r *Registry) Close() error {
	return r.store.Close()
}
