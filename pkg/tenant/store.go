package tenant

import (
	"sync"
	"time"
)

// UsageStore persists per-tenant usage counters.
//
// The default MemoryStore loses counters on restart (daily counters start
// fresh); the SQLite store survives restarts. Both apply the daily-reset
// rule themselves so the registry never has to reason about staleness.
type UsageStore interface {
	// Get returns the tenant's usage with the daily-reset rule applied
	// as of now. Unknown tenants return a zero Usage.
	Get(tenantID string, now time.Time) (Usage, error)

	// Track atomically applies the daily-reset rule and then increments
	// the request counters and token/cost totals. It returns the usage
	// after the increment.
	Track(tenantID string, rec Record, now time.Time) (Usage, error)

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is the default in-process usage store.
// Counters are lost on restart; this is a documented limitation of the
// in-memory core and the reason the SQLite store exists.
type MemoryStore struct {
	mu    sync.Mutex
	usage map[string]*Usage
}

// NewMemoryStore creates an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usage: make(map[string]*Usage),
	}
}

// Get returns the tenant's usage with the daily-reset rule applied.
func (s *MemoryStore) Get(tenantID string, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usage[tenantID]
	if !ok {
		return Usage{LastDailyReset: now}, nil
	}

	applyDailyReset(u, now)
	return *u, nil
}

// Track atomically increments the tenant's counters.
func (s *MemoryStore) Track(tenantID string, rec Record, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usage[tenantID]
	if !ok {
		u = &Usage{LastDailyReset: now}
		s.usage[tenantID] = u
	}

	applyDailyReset(u, now)

	u.DailyRequests++
	u.MonthlyRequests++
	u.TotalTokens += rec.TotalTokens
	u.EstimatedCost += rec.EstimatedCost

	return *u, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
