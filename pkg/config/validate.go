package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values. It returns the
// first error found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "cannot be nil"}
	}

	// Server
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return &ValidationError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.Server.ListenAddress),
		}
	}
	if cfg.Server.MaxHeaderBytes < 0 {
		return &ValidationError{Field: "server.max_header_bytes", Message: "must be non-negative"}
	}

	// Policy
	if cfg.Policy.BlockingThreshold < 0 {
		return &ValidationError{Field: "policy.blocking_threshold", Message: "must be non-negative"}
	}
	if cfg.Policy.MaxDocumentBytes <= 0 {
		return &ValidationError{Field: "policy.max_document_bytes", Message: "must be positive"}
	}

	// Audit
	switch cfg.Audit.Backend {
	case "sqlite", "memory":
	default:
		return &ValidationError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("must be %q or %q, got %q", "sqlite", "memory", cfg.Audit.Backend),
		}
	}
	if cfg.Audit.Backend == "sqlite" && cfg.Audit.SQLite.Path == "" {
		return &ValidationError{Field: "audit.sqlite.path", Message: "cannot be empty"}
	}
	if cfg.Audit.AsyncBuffer <= 0 {
		return &ValidationError{Field: "audit.async_buffer", Message: "must be positive"}
	}
	if cfg.Audit.Retention.Days < 0 {
		return &ValidationError{Field: "audit.retention.days", Message: "must be non-negative"}
	}

	// Rule set archive
	if cfg.RuleSets.ArchivePath == "" {
		return &ValidationError{Field: "rulesets.archive_path", Message: "cannot be empty"}
	}

	// Telemetry
	switch strings.ToLower(cfg.Telemetry.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be debug, info, warn, or error, got %q", cfg.Telemetry.Logging.Level),
		}
	}
	switch strings.ToLower(cfg.Telemetry.Logging.Format) {
	case "json", "text":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Telemetry.Logging.Format),
		}
	}
	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		return &ValidationError{Field: "telemetry.metrics.path", Message: "must start with /"}
	}

	return nil
}
