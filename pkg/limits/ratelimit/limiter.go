package ratelimit

import (
	"sync"
	"time"
)

// DefaultWindow is the fixed-window duration used when the configuration
// does not override it.
const DefaultWindow = 60 * time.Second

// Decision is the outcome of a rate-limit check, carrying everything the
// HTTP layer needs for the X-RateLimit-* headers.
type Decision struct {
	// Allowed reports whether the request may proceed
	Allowed bool

	// Limit is the window's request budget
	Limit int

	// Remaining is the budget left in the current window
	Remaining int

	// Reset is when the current window ends
	Reset time.Time
}

// entry is one key's counter for the current window.
type entry struct {
	count       int
	windowStart time.Time
}

// Limiter is a per-key fixed-window request counter.
//
// Each key (tenant ID) gets an independent window; the per-key limit is
// supplied by the caller on every check so tenants can carry different
// limits without the limiter knowing about tenant configuration.
//
// # Thread Safety
//
// One mutex guards the entry map. Checks are O(1) map operations, so the
// coarse lock is never contended for long.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*entry

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewLimiter creates a limiter with the given window duration.
// A non-positive window falls back to DefaultWindow.
func NewLimiter(window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow consumes one request from the key's current window if the budget
// permits. When the window has rolled over, the counter starts fresh.
func (l *Limiter) Allow(key string, limit int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		e = &entry{windowStart: now}
		l.entries[key] = e
	}

	reset := e.windowStart.Add(l.window)

	if e.count >= limit {
		return Decision{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			Reset:     reset,
		}
	}

	e.count++
	return Decision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - e.count,
		Reset:     reset,
	}
}

// Sweep evicts entries whose window has expired, bounding memory for
// workloads with many short-lived keys. Returns the number of entries
// evicted.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live entries. Primarily for tests and
// metrics.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Window returns the configured window duration.
func (l *Limiter) Window() time.Duration {
	return l.window
}
