package audit

import (
	"context"
	"testing"
	"time"
)

func TestPruneOnceAppliesRetention(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := &Record{ID: "old", RequestID: "req-old", Outcome: OutcomeSuccess, StatusCode: 200, CreatedAt: now.AddDate(0, 0, -45)}
	fresh := &Record{ID: "fresh", RequestID: "req-fresh", Outcome: OutcomeSuccess, StatusCode: 200, CreatedAt: now}
	for _, rec := range []*Record{old, fresh} {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	p := NewPruner(store, &PrunerConfig{RetentionDays: 30, Schedule: "0 3 * * *"})
	if err := p.PruneOnce(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 surviving record", n)
	}
}

func TestPrunerStartStop(t *testing.T) {
	p := NewPruner(&captureStore{}, &PrunerConfig{RetentionDays: 30, Schedule: "0 3 * * *"})

	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Errorf("second start: %v", err)
	}
	p.Stop()
	p.Stop()
}

func TestPrunerIdleWithoutRetention(t *testing.T) {
	p := NewPruner(&captureStore{}, &PrunerConfig{})
	if err := p.Start(); err != nil {
		t.Errorf("idle start: %v", err)
	}
	p.Stop()
}

func TestPrunerRejectsBadSchedule(t *testing.T) {
	p := NewPruner(&captureStore{}, &PrunerConfig{RetentionDays: 30, Schedule: "every day at dawn"})
	if err := p.Start(); err == nil {
		t.Error("bad schedule should be rejected")
		p.Stop()
	}
}
