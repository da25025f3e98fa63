package tenant

import "time"

// Quotas are a tenant's configured usage limits.
// Zero values mean unlimited for the corresponding dimension.
type Quotas struct {
	// DailyRequests is the request budget per rolling 24h day
	DailyRequests int64 `json:"daily_requests"`

	// MonthlyRequests is the request budget per calendar month counter
	MonthlyRequests int64 `json:"monthly_requests"`

	// RateLimitPerMinute is the fixed-window rate limit (default 100)
	RateLimitPerMinute int `json:"rate_limit_per_minute"`
}

// Tenant is one logical customer: a set of API keys, a provider
// allow-list, a routing policy selection, and quotas.
//
// Tenants are immutable at runtime; hot reload replaces the whole record.
type Tenant struct {
	// ID is the unique tenant identifier
	ID string `json:"tenant_id"`

	// Name is an optional display name
	Name string `json:"name,omitempty"`

	// APIKeys authenticate the tenant. Keys are unique across all tenants.
	APIKeys []string `json:"api_keys"`

	// AllowedProviders restricts routing to these provider names.
	// Unknown names are silently ignored at routing time.
	AllowedProviders []string `json:"allowed_providers"`

	// Policy is the routing policy name (balanced when empty)
	Policy string `json:"routing_policy"`

	// Quotas are the tenant's usage limits
	Quotas Quotas `json:"quotas"`
}

// Usage holds a tenant's accumulated counters.
// Counters only grow until an explicit reset; the daily counter resets
// once 24 hours have passed since the last reset.
type Usage struct {
	// DailyRequests counts requests since the last daily reset
	DailyRequests int64 `json:"daily_requests"`

	// MonthlyRequests counts requests this month
	MonthlyRequests int64 `json:"monthly_requests"`

	// TotalTokens is the lifetime token total
	TotalTokens int64 `json:"total_tokens"`

	// EstimatedCost is the lifetime estimated cost in USD
	EstimatedCost float64 `json:"estimated_cost"`

	// LastDailyReset is when the daily counter last reset
	LastDailyReset time.Time `json:"last_daily_reset"`
}

// Record is one request's contribution to a tenant's usage.
type Record struct {
	// TotalTokens is the request's token total
	TotalTokens int64 `json:"total_tokens"`

	// DurationMS is the request's processing time in milliseconds
	DurationMS int64 `json:"duration_ms"`

	// Model is the model hint the caller asked for
	Model string `json:"model"`

	// EstimatedCost is the request's estimated cost in USD
	EstimatedCost float64 `json:"estimated_cost"`
}

// QuotaKind names a quota dimension.
type QuotaKind string

const (
	// QuotaDaily is the per-day request quota.
	QuotaDaily QuotaKind = "daily_requests"

	// QuotaMonthly is the per-month request quota.
	QuotaMonthly QuotaKind = "monthly_requests"
)

// QuotaStatus is the result of a quota check.
type QuotaStatus struct {
	// Allowed reports whether the tenant is under the quota
	Allowed bool `json:"allowed"`

	// Kind is the quota dimension checked
	Kind QuotaKind `json:"kind"`

	// Used is the current counter value
	Used int64 `json:"used"`

	// Limit is the configured quota (0 = unlimited)
	Limit int64 `json:"limit"`

	// Remaining is max(0, Limit-Used); 0 when unlimited
	Remaining int64 `json:"remaining"`
}

// DailyResetInterval is how long a daily counter lives before resetting.
const DailyResetInterval = 24 * time.Hour

// applyDailyReset zeroes the daily counter when the reset interval has
// elapsed. Returns true when a reset happened.
func applyDailyReset(u *Usage, now time.Time) bool {
	if u.LastDailyReset.IsZero() {
		u.LastDailyReset = now
		return false
	}
	if now.Sub(u.LastDailyReset) >= DailyResetInterval {
		u.DailyRequests = 0
		u.LastDailyReset = now
		return true
	}
	return false
}
