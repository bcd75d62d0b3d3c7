package governance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
	"sentra-labs/sentra/pkg/policy/risk"
	"sentra-labs/sentra/pkg/policy/store"
	"sentra-labs/sentra/pkg/policy/validator"
	"sentra-labs/sentra/pkg/telemetry/metrics"
)

// Config contains configuration for the enforcer.
type Config struct {
	// BlockingThreshold is the risk score above which a decision is
	// blocked even without a mandatory rule failure.
	// Default: 20
	BlockingThreshold float64
}

// DefaultConfig returns the default enforcer configuration.
func DefaultConfig() *Config {
	return &Config{BlockingThreshold: 20}
}

// Appender receives completed decisions for the audit trail.
type Appender interface {
	Append(ctx context.Context, record *audit.AuditRecord) error
}

// Enforcer runs the validate-score-decide-audit sequence for action
// requests.
type Enforcer struct {
	snapshots *store.SnapshotStore
	recorder  Appender
	metrics   *metrics.Collector
	config    *Config
	logger    *slog.Logger
}

// NewEnforcer creates an enforcer. recorder and collector may be nil
// (decisions are then unaudited/unmeasured; tests use this).
func NewEnforcer(snapshots *store.SnapshotStore, recorder Appender, collector *metrics.Collector, config *Config) *Enforcer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Enforcer{
		snapshots: snapshots,
		recorder:  recorder,
		metrics:   collector,
		config:    config,
		logger:    slog.Default().With("component", "governance"),
	}
}

// Decide evaluates one action request against the active rule set and
// returns the decision. It fails closed: with no active rule set the
// request is denied with ErrNoActiveRuleSet, never approved.
//
// The snapshot is read once, so a concurrent republish cannot mix old and
// new rules within a single decision.
func (e *Enforcer) Decide(ctx context.Context, userID, action string, parameters map[string]any) (*Decision, error) {
	start := time.Now()

	compiled, ok := e.snapshots.Active()
	if !ok {
		e.logger.Error("decision denied, no active rule set",
			"user_id", userID,
			"action", action,
		)
		return nil, NewDecisionError(userID, action, ErrNoActiveRuleSet)
	}

	// Snapshot the parameters so the audit record is immune to caller
	// mutation after the call returns.
	ec := policy.ExecutionContext(parameters).Clone()

	results := validator.ValidateAll(compiled, ec)
	score := risk.Score(compiled, results)
	mandatoryFailed := validator.MandatoryFailed(compiled, results)

	status := StatusApproved
	if mandatoryFailed || score > e.config.BlockingThreshold {
		status = StatusBlocked
	}

	decision := &Decision{
		Status:        status,
		RiskScore:     score,
		Violations:    validator.Violations(results),
		FailedRuleIDs: validator.FailedRuleIDs(results),
		Warnings:      warnings(compiled, results),
		RuleSetID:     compiled.Set.ID,
		RulesChecked:  len(compiled.Rules),
		Timestamp:     start,
	}

	e.appendAudit(ctx, userID, action, ec, decision)

	duration := time.Since(start)
	if e.metrics != nil {
		e.metrics.RecordDecision(string(status), score, duration)
	}

	e.logger.Info("governance decision",
		"user_id", userID,
		"action", action,
		"status", string(status),
		"risk_score", score,
		"failed_rules", len(decision.FailedRuleIDs),
		"rule_set_id", decision.RuleSetID,
		"duration_ms", duration.Milliseconds(),
	)

	return decision, nil
}

// appendAudit forwards the decision to the audit trail. An append failure
// is logged but does not invalidate the decision already made.
func (e *Enforcer) appendAudit(ctx context.Context, userID, action string, ec policy.ExecutionContext, d *Decision) {
	if e.recorder == nil {
		return
	}

	record := &audit.AuditRecord{
		ID:            uuid.New().String(),
		RequestID:     uuid.New().String(),
		UserID:        userID,
		Action:        action,
		Context:       ec,
		Status:        string(d.Status),
		RiskScore:     d.RiskScore,
		Violations:    d.Violations,
		FailedRuleIDs: d.FailedRuleIDs,
		RuleSetID:     d.RuleSetID,
		RulesChecked:  d.RulesChecked,
		DecidedAt:     d.Timestamp,
		RecordedAt:    time.Now(),
	}

	if err := e.recorder.Append(ctx, record); err != nil {
		e.logger.Error("failed to append audit record",
			"record_id", record.ID,
			"user_id", userID,
			"error", err,
		)
	}
}

// warnings lists failed rules below mandatory level, one message per
// rule. These surface on the decision without forcing a block.
func warnings(set *compiler.CompiledRuleSet, results []policy.ValidationResult) []string {
	levels := make(map[string]policy.ComplianceLevel, len(set.Rules))
	for _, cr := range set.Rules {
		levels[cr.Rule.RuleID] = cr.Rule.ComplianceLevel
	}

	var ws []string
	for _, r := range results {
		if r.Passed {
			continue
		}
		if lvl := levels[r.RuleID]; lvl != policy.LevelMandatory {
			ws = append(ws, fmt.Sprintf("rule %s (%s) failed", r.RuleID, lvl))
		}
	}
	return ws
}
