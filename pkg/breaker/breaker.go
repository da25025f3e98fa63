package breaker

import (
	"log/slog"
	"sync"
	"time"
)

// State is the circuit breaker state.
type State string

const (
	// StateClosed permits all calls. This is the initial state.
	StateClosed State = "closed"

	// StateOpen blocks all calls until the cooldown elapses.
	StateOpen State = "open"

	// StateHalfOpen permits probe calls after the cooldown. The next
	// recorded outcome decides whether the circuit closes or re-opens.
	StateHalfOpen State = "half_open"
)

// Default breaker parameters.
const (
	// DefaultThreshold is the number of consecutive failures that opens
	// the circuit.
	DefaultThreshold = 5

	// DefaultCooldown is how long an open circuit blocks calls before
	// permitting a probe.
	DefaultCooldown = 60 * time.Second
)

// Breaker is a per-provider circuit breaker.
//
// # State Machine
//
//   - CLOSED: all calls permitted. RecordSuccess resets the failure count;
//     RecordFailure increments it, and on reaching the threshold the
//     circuit opens with next_attempt_time = now + cooldown.
//   - OPEN: calls blocked. The first Allow call at or after
//     next_attempt_time transitions to HALF_OPEN and permits one probe.
//   - HALF_OPEN: calls permitted. RecordSuccess closes the circuit and
//     resets the failure count; RecordFailure re-opens it with a fresh
//     cooldown.
//
// # Thread Safety
//
// All state transitions happen under a single per-breaker mutex, so state
// and next_attempt_time always update together. Readers may observe stale
// state but never an inconsistent one.
type Breaker struct {
	mu sync.Mutex

	provider  string
	threshold int
	cooldown  time.Duration

	state           State
	failureCount    int
	lastFailureTime time.Time
	nextAttemptTime time.Time

	// now is the clock, replaceable in tests
	now func() time.Time
}

// Snapshot is a consistent point-in-time view of a breaker's state.
type Snapshot struct {
	// Provider is the provider this breaker guards
	Provider string `json:"provider"`

	// State is closed, open, or half_open
	State State `json:"state"`

	// FailureCount is the current consecutive failure count
	FailureCount int `json:"failure_count"`

	// LastFailureTime is when the last failure was recorded
	LastFailureTime time.Time `json:"last_failure_time,omitempty"`

	// NextAttemptTime is when an open circuit next permits a probe
	NextAttemptTime time.Time `json:"next_attempt_time,omitempty"`

	// Threshold is the configured consecutive-failure threshold
	Threshold int `json:"threshold"`
}

// New creates a breaker for the named provider.
// Non-positive threshold or cooldown fall back to the defaults.
func New(provider string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &Breaker{
		provider:  provider,
		threshold: threshold,
		cooldown:  cooldown,
		state:     StateClosed,
		now:       time.Now,
	}
}

// Allow reports whether a call to the provider is currently permitted.
// For an open circuit whose cooldown has elapsed, the first Allow call
// transitions to HALF_OPEN and returns true; the caller is expected to
// report the probe outcome via RecordSuccess or RecordFailure.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed, StateHalfOpen:
		return true

	case StateOpen:
		if !b.now().Before(b.nextAttemptTime) {
			b.state = StateHalfOpen
			slog.Info("circuit breaker half-open, permitting probe",
				"provider", b.provider,
			)
			return true
		}
		return false

	default:
		return false
	}
}

// RecordSuccess reports a successful call outcome.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.state = StateClosed
		b.failureCount = 0
		slog.Info("circuit breaker closed after successful probe",
			"provider", b.provider,
		)
	case StateClosed:
		b.failureCount = 0
	}
}

// RecordFailure reports a failed call outcome.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.lastFailureTime = now

	switch b.state {
	case StateHalfOpen:
		b.openLocked(now)

	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.threshold {
			b.openLocked(now)
		}

	case StateOpen:
		// A failure reported while open (e.g. an attempt that started
		// before the circuit opened) just refreshes the failure time.
	}
}

// openLocked transitions to OPEN. Caller must hold the mutex.
func (b *Breaker) openLocked(now time.Time) {
	b.state = StateOpen
	b.nextAttemptTime = now.Add(b.cooldown)

	slog.Warn("circuit breaker opened",
		"provider", b.provider,
		"failure_count", b.failureCount,
		"next_attempt_time", b.nextAttemptTime,
	)
}

// Snapshot returns a consistent view of the breaker state.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Provider:        b.provider,
		State:           b.state,
		FailureCount:    b.failureCount,
		LastFailureTime: b.lastFailureTime,
		NextAttemptTime: b.nextAttemptTime,
		Threshold:       b.threshold,
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureCount returns the current consecutive failure count.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}
