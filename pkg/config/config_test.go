package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 30*time.Second || cfg.Server.IdleTimeout != 120*time.Second {
		t.Errorf("server timeouts = %v/%v", cfg.Server.ReadTimeout, cfg.Server.IdleTimeout)
	}
	if cfg.Policy.BlockingThreshold != 20 {
		t.Errorf("BlockingThreshold = %v", cfg.Policy.BlockingThreshold)
	}
	if cfg.Policy.MaxDocumentBytes != 10<<20 {
		t.Errorf("MaxDocumentBytes = %d", cfg.Policy.MaxDocumentBytes)
	}
	if cfg.Audit.Backend != "sqlite" || cfg.Audit.SQLite.Path != "data/audit.db" {
		t.Errorf("audit backend = %s/%s", cfg.Audit.Backend, cfg.Audit.SQLite.Path)
	}
	if !cfg.Audit.SQLite.WALMode {
		t.Error("WALMode should default to true")
	}
	if cfg.Audit.Retention.Days != 365 || cfg.Audit.Retention.Schedule != "0 3 * * *" {
		t.Errorf("retention = %d/%s", cfg.Audit.Retention.Days, cfg.Audit.Retention.Schedule)
	}
	if cfg.RuleSets.ArchivePath != "data/rulesets.db" {
		t.Errorf("rule set archive = %s", cfg.RuleSets.ArchivePath)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging = %s/%s", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %v/%s", cfg.Telemetry.Metrics.Enabled, cfg.Telemetry.Metrics.Path)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 10s
policy:
  documents_dir: "/etc/sentra/policies"
  watch: true
  blocking_threshold: 50
audit:
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if !cfg.Policy.Watch || cfg.Policy.DocumentsDir != "/etc/sentra/policies" {
		t.Errorf("policy = %+v", cfg.Policy)
	}
	if cfg.Policy.BlockingThreshold != 50 {
		t.Errorf("BlockingThreshold = %v", cfg.Policy.BlockingThreshold)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Backend = %s", cfg.Audit.Backend)
	}

	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout default missing: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Audit.AsyncBuffer != 1000 {
		t.Errorf("AsyncBuffer default missing: %d", cfg.Audit.AsyncBuffer)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/config.yaml"); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed yaml should be an error")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "nohostport" }, "server.listen_address"},
		{"negative threshold", func(c *Config) { c.Policy.BlockingThreshold = -1 }, "policy.blocking_threshold"},
		{"zero document bytes", func(c *Config) { c.Policy.MaxDocumentBytes = -5 }, "policy.max_document_bytes"},
		{"unknown audit backend", func(c *Config) { c.Audit.Backend = "postgres" }, "audit.backend"},
		{"empty sqlite path", func(c *Config) { c.Audit.SQLite.Path = "" }, "audit.sqlite.path"},
		{"negative retention", func(c *Config) { c.Audit.Retention.Days = -1 }, "audit.retention.days"},
		{"empty ruleset archive", func(c *Config) { c.RuleSets.ArchivePath = "" }, "rulesets.archive_path"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.field)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
audit:
  backend: sqlite
`)

	t.Setenv("SENTRA_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("SENTRA_POLICY_BLOCKING_THRESHOLD", "35.5")
	t.Setenv("SENTRA_POLICY_WATCH", "true")
	t.Setenv("SENTRA_AUDIT_BACKEND", "memory")
	t.Setenv("SENTRA_AUDIT_RETENTION_DAYS", "90")
	t.Setenv("SENTRA_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("ListenAddress = %s", cfg.Server.ListenAddress)
	}
	if cfg.Policy.BlockingThreshold != 35.5 {
		t.Errorf("BlockingThreshold = %v", cfg.Policy.BlockingThreshold)
	}
	if !cfg.Policy.Watch {
		t.Error("Watch override lost")
	}
	if cfg.Audit.Backend != "memory" || cfg.Audit.Retention.Days != 90 {
		t.Errorf("audit overrides = %s/%d", cfg.Audit.Backend, cfg.Audit.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %s", cfg.Telemetry.Logging.Level)
	}
}

func TestEnvOverrideInvalidValueRejected(t *testing.T) {
	path := writeConfig(t, "")

	t.Setenv("SENTRA_AUDIT_BACKEND", "cassandra")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		t.Fatal("invalid override should fail validation")
	}
	if !strings.Contains(err.Error(), "audit.backend") {
		t.Errorf("error = %v", err)
	}
}
