// Package logging configures the process-wide slog logger.
//
// Initialize installs a JSON or text handler at the configured level as
// the slog default. Subsystems derive component-scoped loggers with
// slog.Default().With("component", ...), so everything funnels through one
// handler.
package logging
