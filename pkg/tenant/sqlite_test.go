package tenant

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreTrackAndGet(t *testing.T) {
	store := newTestSQLiteStore(t)
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	if _, err := store.Track("acme-corp", Record{TotalTokens: 100, EstimatedCost: 0.01}, now); err != nil {
		t.Fatalf("track: %v", err)
	}
	usage, err := store.Track("acme-corp", Record{TotalTokens: 50, EstimatedCost: 0.02}, now)
	if err != nil {
		t.Fatalf("track: %v", err)
	}

	if usage.DailyRequests != 2 {
		t.Errorf("daily requests = %d, want 2", usage.DailyRequests)
	}
	if usage.TotalTokens != 150 {
		t.Errorf("total tokens = %d, want 150", usage.TotalTokens)
	}

	got, err := store.Get("acme-corp", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MonthlyRequests != 2 {
		t.Errorf("monthly requests = %d, want 2", got.MonthlyRequests)
	}
}

func TestSQLiteStoreUnknownTenant(t *testing.T) {
	store := newTestSQLiteStore(t)

	usage, err := store.Get("never-seen", time.Now())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if usage.DailyRequests != 0 || usage.TotalTokens != 0 {
		t.Errorf("unknown tenant usage = %+v, want zero", usage)
	}
}

func TestSQLiteStoreDailyReset(t *testing.T) {
	store := newTestSQLiteStore(t)
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	store.Track("acme-corp", Record{}, now)
	store.Track("acme-corp", Record{}, now)

	later := now.Add(25 * time.Hour)
	usage, err := store.Get("acme-corp", later)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if usage.DailyRequests != 0 {
		t.Errorf("daily requests after reset = %d, want 0", usage.DailyRequests)
	}
	if usage.MonthlyRequests != 2 {
		t.Errorf("monthly requests = %d, want 2 across reset", usage.MonthlyRequests)
	}
}
