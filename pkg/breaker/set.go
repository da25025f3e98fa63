package breaker

import (
	"sort"
	"sync"
	"time"
)

// Set holds one breaker per provider, created lazily on first use.
//
// Set is thread-safe. The map itself is guarded by one mutex; each
// breaker keeps its own fine-grained lock for state transitions.
type Set struct {
	mu        sync.RWMutex
	breakers  map[string]*Breaker
	threshold int
	cooldown  time.Duration
}

// NewSet creates a breaker set with shared parameters.
// Non-positive threshold or cooldown fall back to the defaults.
func NewSet(threshold int, cooldown time.Duration) *Set {
	return &Set{
		breakers:  make(map[string]*Breaker),
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Get returns the breaker for the named provider, creating it on first use.
func (s *Set) Get(provider string) *Breaker {
	s.mu.RLock()
	b, ok := s.breakers[provider]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.breakers[provider]; ok {
		return b
	}
	b = New(provider, s.threshold, s.cooldown)
	s.breakers[provider] = b
	return b
}

// Allow reports whether a call to the named provider is permitted.
func (s *Set) Allow(provider string) bool {
	return s.Get(provider).Allow()
}

// RecordSuccess reports a successful outcome for the named provider.
func (s *Set) RecordSuccess(provider string) {
	s.Get(provider).RecordSuccess()
}

// RecordFailure reports a failed outcome for the named provider.
func (s *Set) RecordFailure(provider string) {
	s.Get(provider).RecordFailure()
}

// Snapshots returns a snapshot of every breaker, keyed by provider name.
func (s *Set) Snapshots() map[string]Snapshot {
	s.mu.RLock()
	names := make([]string, 0, len(s.breakers))
	for name := range s.breakers {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)

	out := make(map[string]Snapshot, len(names))
	for _, name := range names {
		out[name] = s.Get(name).Snapshot()
	}
	return out
}

// Remove drops the breaker for a provider that no longer exists
// (descriptor removed on hot reload).
func (s *Set) Remove(provider string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.breakers, provider)
}
