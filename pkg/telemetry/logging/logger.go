package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"sentra-labs/sentra/pkg/config"
)

// Initialize builds a logger from the configuration, installs it as the
// slog default, and returns it.
func Initialize(cfg config.LoggingConfig) *slog.Logger {
	logger := New(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w. Unknown formats fall back to JSON,
// unknown levels to info.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns a logger scoped to a named component.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
