// Package config defines the service configuration, loaded from YAML with
// defaults, validation, and SENTRA_* environment variable overrides.
//
// The loading sequence is Load -> ApplyDefaults -> env overrides ->
// Validate. Environment variables follow the convention
// SENTRA_SECTION_FIELD (e.g. SENTRA_SERVER_LISTEN_ADDRESS) and always win
// over file values.
package config
