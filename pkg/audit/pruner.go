package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PrunerConfig contains configuration for the retention pruner.
type PrunerConfig struct {
	// RetentionDays is the number of days to retain records.
	// 0 means keep records forever (no pruning).
	RetentionDays int

	// Schedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 03:00)
	Schedule string
}

// Pruner deletes audit records past their retention period on a cron
// schedule.
type Pruner struct {
	store  Store
	config *PrunerConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewPruner creates a retention pruner over the store.
func NewPruner(store Store, config *PrunerConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.pruner"),
	}
}

// Start begins scheduled pruning. With no retention period or no
// schedule, Start is a no-op.
func (p *Pruner) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.config.RetentionDays <= 0 || p.config.Schedule == "" {
		p.logger.Info("audit retention not configured, pruner idle")
		return nil
	}

	_, err := p.cron.AddFunc(p.config.Schedule, func() {
		if err := p.PruneOnce(context.Background()); err != nil {
			p.logger.Error("audit pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", p.config.Schedule, err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("audit pruner started",
		"schedule", p.config.Schedule,
		"retention_days", p.config.RetentionDays,
	)
	return nil
}

// PruneOnce runs one pruning pass immediately.
func (p *Pruner) PruneOnce(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		p.logger.Info("audit records pruned",
			"deleted", deleted,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
		)
	}
	return nil
}

// Stop halts scheduled pruning and waits for a running pass to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	ctx := p.cron.Stop()
	<-ctx.Done()
	p.running = false

	p.logger.Info("audit pruner stopped")
}
