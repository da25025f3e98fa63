package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the audit recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes audit records asynchronously so the request path never
// blocks on storage. When the buffer is full, records are dropped with a
// warning rather than stalling requests.
type Recorder struct {
	store      Store
	config     *RecorderConfig
	recordChan chan *Record
	wg         sync.WaitGroup
	logger     *slog.Logger

	closeOnce sync.Once
}

// NewRecorder creates a recorder over the given store and starts its
// background writer.
func NewRecorder(store Store, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:      store,
		config:     config,
		recordChan: make(chan *Record, config.AsyncBuffer),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder started",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)
	return r
}

// Record enqueues one record for writing. Missing ID and CreatedAt
// fields are filled in. Returns immediately; a full buffer drops the
// record with a warning.
func (r *Recorder) Record(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	select {
	case r.recordChan <- rec:
	default:
		r.logger.Warn("audit buffer full, dropping record",
			"request_id", rec.RequestID,
			"tenant", rec.TenantID,
		)
	}
}

// worker drains the record channel into the store.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for rec := range r.recordChan {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		if err := r.store.Insert(ctx, rec); err != nil {
			r.logger.Error("failed to write audit record",
				"request_id", rec.RequestID,
				"error", err,
			)
		}
		cancel()
	}
}

// Close stops accepting records, drains the buffer, and waits for the
// writer to finish. Safe to call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.recordChan)
		r.wg.Wait()
	})
	return nil
}
