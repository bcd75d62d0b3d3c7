package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sentra-labs/sentra/pkg/audit"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// AsyncBuffer is the size of the append channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds both a blocked enqueue when the buffer is full
	// and each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Observer, when set, is called after every storage write with its
	// duration and outcome. Used to feed append-latency metrics.
	Observer func(duration time.Duration, err error)
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder serializes audit appends through a single background worker.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	recordChan chan *audit.AuditRecord
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

// NewRecorder creates a recorder writing to the provided storage backend
// and starts its worker.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = DefaultConfig().AsyncBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *audit.AuditRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Append enqueues a record for async writing. The enqueue happens inside
// the decision call, so queue order is decision-call order. Returns an
// error when the queue is full past WriteTimeout or the recorder is
// shutting down; the caller's decision is unaffected either way.
func (r *Recorder) Append(ctx context.Context, record *audit.AuditRecord) error {
	if record == nil {
		return audit.NewRecorderError("", errNilRecord)
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}

	select {
	case r.recordChan <- record:
		return nil
	case <-ctx.Done():
		return audit.NewRecorderError(record.ID, ctx.Err())
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("audit record channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return audit.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
		)
		return audit.NewRecorderError(record.ID, context.Canceled)
	}
}

// Close shuts down the recorder, draining the queue and waiting for all
// pending writes to complete.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down audit recorder")

	close(r.done)
	r.wg.Wait()

	r.logger.Info("audit recorder shut down complete")
	return nil
}

// worker drains the append channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			r.logger.Info("draining audit channel before shutdown",
				"pending_count", len(r.recordChan),
			)
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Info("audit channel drained")
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *audit.AuditRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := r.storage.Append(ctx, record)
	duration := time.Since(start)

	if r.config.Observer != nil {
		r.config.Observer(duration, err)
	}

	if err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"user_id", record.UserID,
			"error", err,
		)
		return
	}

	r.logger.Debug("audit record stored",
		"record_id", record.ID,
		"user_id", record.UserID,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
