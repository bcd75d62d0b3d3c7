package config

import "time"

// Config is the root configuration structure for the governance service.
type Config struct {
	// Server contains the HTTP API server configuration.
	Server ServerConfig `yaml:"server"`

	// Policy contains configuration for policy ingestion and decisioning:
	// the documents directory, watch mode, and the blocking threshold.
	Policy PolicyConfig `yaml:"policy"`

	// Audit contains configuration for decision history storage and
	// retention.
	Audit AuditConfig `yaml:"audit"`

	// RuleSets contains configuration for the rule set archive.
	RuleSets RuleSetsConfig `yaml:"rulesets"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// PolicyConfig contains configuration for policy ingestion and the
// decision pipeline.
type PolicyConfig struct {
	// DocumentsDir is the directory holding policy documents. When set and
	// Watch is true, changes trigger reparse and atomic republish.
	// Default: "./policies"
	DocumentsDir string `yaml:"documents_dir"`

	// Watch enables the documents directory watcher.
	// Default: false
	Watch bool `yaml:"watch"`

	// BlockingThreshold is the risk score above which a decision is
	// blocked even without a mandatory rule failure.
	// Default: 20
	BlockingThreshold float64 `yaml:"blocking_threshold"`

	// MaxDocumentBytes bounds the size of a single policy document
	// accepted at the extraction boundary.
	// Default: 10485760 (10MB)
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`

	// ParseTimeout bounds extraction plus parsing of one document.
	// Default: 30s
	ParseTimeout time.Duration `yaml:"parse_timeout"`
}

// AuditConfig contains configuration for decision history storage.
type AuditConfig struct {
	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite backend.
	SQLite AuditSQLiteConfig `yaml:"sqlite"`

	// AsyncBuffer is the append queue size.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds each storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention configures pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// AuditSQLiteConfig contains SQLite settings for the audit backend.
type AuditSQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the connection pool size.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the idle connection count.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the lock wait duration.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains audit retention settings.
type RetentionConfig struct {
	// Days is the retention window; 0 keeps records forever.
	// Default: 365
	Days int `yaml:"days"`

	// Schedule is the cron expression for scheduled pruning; empty
	// disables the scheduler.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete exports records to JSON before deletion.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archived exports.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`
}

// RuleSetsConfig contains configuration for the rule set archive.
type RuleSetsConfig struct {
	// ArchivePath is the SQLite database file for published rule sets.
	// Default: "data/rulesets.db"
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "sentra"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem.
	// Default: "governance"
	Subsystem string `yaml:"subsystem"`
}
