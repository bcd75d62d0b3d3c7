package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"sentra-labs/sentra/pkg/policy"
)

// ErrRuleSetNotFound is returned when the archive holds no rule set with
// the requested id.
var ErrRuleSetNotFound = errors.New("rule set not found")

// ArchiveConfig configures the rule set archive.
type ArchiveConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Archive persists published rule sets so that export by rule_set_id
// survives restarts. Rule sets are immutable, so rows are insert-only.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewArchive opens (or creates) the archive database.
func NewArchive(cfg ArchiveConfig) (*Archive, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("archive db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	a := &Archive{
		db:     db,
		logger: slog.Default().With("component", "policy.store.archive"),
	}

	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	a.logger.Info("rule set archive opened", "path", cfg.DBPath)
	return a, nil
}

// initSchema creates the archive schema if it doesn't exist.
func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		rules TEXT NOT NULL,
		skipped INTEGER NOT NULL,
		vacuous INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rule_sets_created_at ON rule_sets(created_at);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Save persists a published rule set. Saving the same id twice is a no-op;
// rule sets never change after publication.
func (a *Archive) Save(ctx context.Context, set *policy.RuleSet) error {
	if set == nil {
		return fmt.Errorf("rule set cannot be nil")
	}

	rulesJSON, err := json.Marshal(set.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO rule_sets (id, source, created_at, rules, skipped, vacuous)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, set.ID, set.Source, set.CreatedAt, string(rulesJSON), set.Skipped, set.Vacuous)
	if err != nil {
		return fmt.Errorf("failed to save rule set %s: %w", set.ID, err)
	}

	a.logger.Debug("rule set archived", "rule_set_id", set.ID, "rules", len(set.Rules))
	return nil
}

// Get retrieves an archived rule set by id. Returns ErrRuleSetNotFound
// when the id is unknown.
func (a *Archive) Get(ctx context.Context, id string) (*policy.RuleSet, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, source, created_at, rules, skipped, vacuous
		FROM rule_sets WHERE id = ?
	`, id)

	var set policy.RuleSet
	var rulesJSON string
	err := row.Scan(&set.ID, &set.Source, &set.CreatedAt, &rulesJSON, &set.Skipped, &set.Vacuous)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule set %s: %w", id, ErrRuleSetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(rulesJSON), &set.Rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules for %s: %w", id, err)
	}
	return &set, nil
}

// List returns id, source, and creation time for all archived rule sets,
// newest first.
func (a *Archive) List(ctx context.Context) ([]ArchiveEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, source, created_at FROM rule_sets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		if err := rows.Scan(&e.ID, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule set entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// ArchiveEntry is a summary row from List.
type ArchiveEntry struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
