package config

import "time"

// ApplyDefaults fills in default values for any unset fields. It is safe
// to call on a zero Config.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20
	}

	// Policy defaults
	if cfg.Policy.DocumentsDir == "" {
		cfg.Policy.DocumentsDir = "./policies"
	}
	if cfg.Policy.BlockingThreshold == 0 {
		cfg.Policy.BlockingThreshold = 20
	}
	if cfg.Policy.MaxDocumentBytes == 0 {
		cfg.Policy.MaxDocumentBytes = 10 << 20
	}
	if cfg.Policy.ParseTimeout == 0 {
		cfg.Policy.ParseTimeout = 30 * time.Second
	}

	// Audit defaults
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = "data/audit.db"
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = 10
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = 5
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = 5 * time.Second
		cfg.Audit.SQLite.WALMode = true
	}
	if cfg.Audit.AsyncBuffer == 0 {
		cfg.Audit.AsyncBuffer = 1000
	}
	if cfg.Audit.WriteTimeout == 0 {
		cfg.Audit.WriteTimeout = 5 * time.Second
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = 365
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = "0 3 * * *"
	}
	if cfg.Audit.Retention.ArchivePath == "" {
		cfg.Audit.Retention.ArchivePath = "data/archives/"
	}

	// Rule set archive defaults
	if cfg.RuleSets.ArchivePath == "" {
		cfg.RuleSets.ArchivePath = "data/rulesets.db"
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "sentra"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "governance"
	}
}

// Default returns a Config populated entirely with defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
