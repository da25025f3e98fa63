package tenant

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore is a UsageStore backed by SQLite, for deployments that need
// quota counters to survive restarts. It is a drop-in replacement for
// MemoryStore behind the same contract; no other component changes.
//
// The database runs in WAL mode with a single writer connection, which is
// all a per-tenant counter table needs.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex

	closeOnce sync.Once
}

// NewSQLiteStore opens (creating if needed) the usage database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("usage store path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}

	return s, nil
}

// initSchema creates the usage table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tenant_usage (
		tenant_id        TEXT PRIMARY KEY,
		daily_requests   INTEGER NOT NULL DEFAULT 0,
		monthly_requests INTEGER NOT NULL DEFAULT 0,
		total_tokens     INTEGER NOT NULL DEFAULT 0,
		estimated_cost   REAL    NOT NULL DEFAULT 0,
		last_daily_reset INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the tenant's usage with the daily-reset rule applied.
// The reset is persisted so repeated reads stay consistent.
func (s *SQLiteStore) Get(tenantID string, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, found, err := s.loadLocked(tenantID)
	if err != nil {
		return Usage{}, err
	}
	if !found {
		return Usage{LastDailyReset: now}, nil
	}

	if applyDailyReset(&u, now) {
		if err := s.saveLocked(tenantID, u); err != nil {
			return Usage{}, err
		}
	}

	return u, nil
}

// Track atomically increments the tenant's counters.
func (s *SQLiteStore) Track(tenantID string, rec Record, now time.Time) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, found, err := s.loadLocked(tenantID)
	if err != nil {
		return Usage{}, err
	}
	if !found {
		u = Usage{LastDailyReset: now}
	}

	applyDailyReset(&u, now)

	u.DailyRequests++
	u.MonthlyRequests++
	u.TotalTokens += rec.TotalTokens
	u.EstimatedCost += rec.EstimatedCost

	if err := s.saveLocked(tenantID, u); err != nil {
		return Usage{}, err
	}

	return u, nil
}

// loadLocked reads one row. Caller must hold the mutex.
func (s *SQLiteStore) loadLocked(tenantID string) (Usage, bool, error) {
	var u Usage
	var lastReset int64

	err := s.db.QueryRow(`
		SELECT daily_requests, monthly_requests, total_tokens, estimated_cost, last_daily_reset
		FROM tenant_usage WHERE tenant_id = ?
	`, tenantID).Scan(&u.DailyRequests, &u.MonthlyRequests, &u.TotalTokens, &u.EstimatedCost, &lastReset)
	if err == sql.ErrNoRows {
		return Usage{}, false, nil
	}
	if err != nil {
		return Usage{}, false, fmt.Errorf("failed to load usage: %w", err)
	}

	u.LastDailyReset = time.Unix(lastReset, 0)
	return u, true, nil
}

// saveLocked upserts one row. Caller must hold the mutex.
func (s *SQLiteStore) saveLocked(tenantID string, u Usage) error {
	_, err := s.db.Exec(`
		INSERT INTO tenant_usage (tenant_id, daily_requests, monthly_requests, total_tokens, estimated_cost, last_daily_reset)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id) DO UPDATE SET
			daily_requests   = excluded.daily_requests,
			monthly_requests = excluded.monthly_requests,
			total_tokens     = excluded.total_tokens,
			estimated_cost   = excluded.estimated_cost,
			last_daily_reset = excluded.last_daily_reset
	`, tenantID, u.DailyRequests, u.MonthlyRequests, u.TotalTokens, u.EstimatedCost, u.LastDailyReset.Unix())
	if err != nil {
		return fmt.Errorf("failed to save usage: %w", err)
	}
	return nil
}

// Close closes the database. Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		closeErr = s.db.Close()
	})
	return closeErr
}
