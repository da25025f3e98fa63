package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

// Sweeper periodically evicts expired limiter entries on a cron schedule.
type Sweeper struct {
	limiter  *Limiter
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper for the limiter.
// An empty schedule uses DefaultSweepSchedule.
func NewSweeper(limiter *Limiter, schedule string) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &Sweeper{
		limiter:  limiter,
		cron:     cron.New(),
		schedule: schedule,
		logger:   slog.Default().With("component", "ratelimit.sweeper"),
	}
}

// Start begins the scheduled sweeping. Starting twice is a no-op.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		evicted := s.limiter.Sweep()
		if evicted > 0 {
			s.logger.Debug("rate limit entries swept",
				"evicted", evicted,
				"remaining", s.limiter.Len(),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("rate limit sweeper started", "schedule", s.schedule)
	return nil
}

// Stop halts the scheduled sweeping and waits for a running sweep to
// finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info("rate limit sweeper stopped")
}
