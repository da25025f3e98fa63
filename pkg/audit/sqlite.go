package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists audit records.
type Store interface {
	// Insert writes one record.
	Insert(ctx context.Context, rec *Record) error

	// Prune deletes records created before the cutoff and returns the
	// number deleted.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying storage.
	Close() error
}

// SQLiteConfig contains configuration for the SQLite audit store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id           TEXT PRIMARY KEY,
	request_id   TEXT NOT NULL,
	tenant_id    TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL,
	status_code  INTEGER NOT NULL,
	error_type   TEXT NOT NULL DEFAULT '',
	provider     TEXT NOT NULL DEFAULT '',
	policy       TEXT NOT NULL DEFAULT '',
	model        TEXT NOT NULL DEFAULT '',
	attempts     TEXT NOT NULL DEFAULT '[]',
	total_tokens INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_records(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_tenant ON audit_records(tenant_id, created_at);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewSQLiteStore opens (or creates) the audit database and initializes
// the schema. WAL mode keeps concurrent inserts from blocking pruning.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", config.Path, err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("audit store initialized",
		"path", config.Path,
		"max_open_conns", config.MaxOpenConns,
	)
	return s, nil
}

// initialize enables WAL mode, sets the busy timeout, and creates the
// schema.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}

// Insert writes one record.
func (s *SQLiteStore) Insert(ctx context.Context, rec *Record) error {
	attempts, err := json.Marshal(rec.Attempts)
	if err != nil {
		return fmt.Errorf("failed to encode attempt trace: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_records (
			id, request_id, tenant_id, outcome, status_code, error_type,
			provider, policy, model, attempts, total_tokens, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RequestID,
		rec.TenantID,
		string(rec.Outcome),
		rec.StatusCode,
		rec.ErrorType,
		rec.Provider,
		rec.Policy,
		rec.Model,
		string(attempts),
		rec.TotalTokens,
		rec.DurationMS,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Prune deletes records created before the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_records WHERE created_at < ?", before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit records: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned records: %w", err)
	}
	return deleted, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return n, nil
}

// Close closes the database. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
