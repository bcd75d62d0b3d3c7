package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sentra-labs/sentra/pkg/extract"
	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
	"sentra-labs/sentra/pkg/policy/parser"
	"sentra-labs/sentra/pkg/policy/store"
	"sentra-labs/sentra/pkg/telemetry/metrics"
)

// Config contains configuration for the manager.
type Config struct {
	// ParseTimeout bounds extraction plus parsing of one document.
	// Default: 30 seconds
	ParseTimeout time.Duration
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() *Config {
	return &Config{ParseTimeout: 30 * time.Second}
}

// UploadResult is the summary returned for one policy upload.
type UploadResult struct {
	// RuleSetID identifies the published rule set; empty when extraction
	// failed and nothing was published.
	RuleSetID string `json:"rule_set_id"`

	RulesExtracted int `json:"rules_extracted"`
	Skipped        int `json:"skipped"`
	Vacuous        int `json:"vacuous"`

	// ByCategory and ByLevel count the extracted rules.
	ByCategory map[string]int `json:"by_category,omitempty"`
	ByLevel    map[string]int `json:"by_level,omitempty"`

	// Sections lists the headings detected in the document.
	Sections []string `json:"sections,omitempty"`

	// Diagnostic carries the extraction failure message when the document
	// could not be processed.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Manager wires extractor, parser, compiler, snapshot store, and archive
// into the upload path.
type Manager struct {
	extractor *extract.Extractor
	parser    *parser.Parser
	snapshots *store.SnapshotStore
	archive   *store.Archive
	metrics   *metrics.Collector
	config    *Config
	logger    *slog.Logger
}

// New creates a manager. archive and collector may be nil.
func New(extractor *extract.Extractor, p *parser.Parser, snapshots *store.SnapshotStore, archive *store.Archive, collector *metrics.Collector, config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		extractor: extractor,
		parser:    p,
		snapshots: snapshots,
		archive:   archive,
		metrics:   collector,
		config:    config,
		logger:    slog.Default().With("component", "policy.manager"),
	}
}

// Upload runs one document through extract, parse, compile, and publish.
//
// An extraction failure is recovered at this boundary: the result reports
// zero rules with a diagnostic and the active rule set is left untouched.
// A compile failure is an internal fault (a parser defect) and is
// returned as an error.
func (m *Manager) Upload(ctx context.Context, content []byte, filename string, declaredType extract.DeclaredType) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.config.ParseTimeout)
	defer cancel()

	doc, err := m.extractor.Extract(ctx, content, filename, declaredType)
	if err != nil {
		var extErr *extract.ExtractionError
		if errors.As(err, &extErr) {
			m.logger.Warn("document rejected at extraction boundary",
				"filename", filename,
				"declared_type", string(declaredType),
				"error", extErr.Message,
			)
			return &UploadResult{Diagnostic: extErr.Message}, nil
		}
		return nil, fmt.Errorf("extraction failed for %q: %w", filename, err)
	}

	parsed, err := m.parser.Parse(ctx, doc.Text, filename)
	if err != nil {
		return nil, fmt.Errorf("parsing failed for %q: %w", filename, err)
	}

	set := policy.NewRuleSet(filename, parsed.Rules, parsed.Skipped)

	compiled, err := compiler.Compile(set)
	if err != nil {
		return nil, fmt.Errorf("compilation failed for %q: %w", filename, err)
	}

	m.snapshots.Publish(compiled)

	if m.archive != nil {
		if err := m.archive.Save(ctx, set); err != nil {
			// The active snapshot is already published; archive loss only
			// affects export-by-id after restart.
			m.logger.Error("failed to archive rule set",
				"rule_set_id", set.ID,
				"error", err,
			)
		}
	}

	if m.metrics != nil {
		m.metrics.RecordExtraction(len(set.Rules), set.Skipped)
		m.metrics.SetActiveRules(len(set.Rules))
	}

	m.logger.Info("rule set published",
		"rule_set_id", set.ID,
		"source", filename,
		"rules", len(set.Rules),
		"skipped", set.Skipped,
		"vacuous", set.Vacuous,
	)

	return &UploadResult{
		RuleSetID:      set.ID,
		RulesExtracted: len(set.Rules),
		Skipped:        set.Skipped,
		Vacuous:        set.Vacuous,
		ByCategory:     categoryCounts(set),
		ByLevel:        levelCounts(set),
		Sections:       doc.Sections,
	}, nil
}

// UploadDirectory parses every policy document in a directory as one
// combined upload, in filename order so republishing is deterministic.
// Used at startup and by the document watcher.
func (m *Manager) UploadDirectory(ctx context.Context, dir string) (*UploadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy directory %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".txt" || ext == ".md" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return &UploadResult{Diagnostic: "no policy documents found"}, nil
	}

	var combined strings.Builder
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read policy document %q: %w", name, err)
		}
		combined.Write(content)
		combined.WriteString("\n\n")
	}

	source := dir
	if len(names) == 1 {
		source = names[0]
	}
	return m.Upload(ctx, []byte(combined.String()), source, extract.TypeText)
}

func categoryCounts(set *policy.RuleSet) map[string]int {
	counts := make(map[string]int)
	for _, r := range set.Rules {
		counts[string(r.Category)]++
	}
	return counts
}

func levelCounts(set *policy.RuleSet) map[string]int {
	counts := make(map[string]int)
	for _, r := range set.Rules {
		counts[string(r.ComplianceLevel)]++
	}
	return counts
}
