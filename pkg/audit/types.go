package audit

import (
	"context"
	"time"

	"sentra-labs/sentra/pkg/policy"
)

// Decision status values as stored on audit records.
const (
	StatusApproved = "approved"
	StatusBlocked  = "blocked"
)

// AuditRecord is the immutable history entry for one governance decision.
// It snapshots the request context and flattens the decision so the record
// is self-contained and replayable without the rule set that produced it.
type AuditRecord struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // Caller-supplied or generated per decision

	// Who asked for what
	UserID  string                  `json:"user_id"`
	Action  string                  `json:"action"`
	Context policy.ExecutionContext `json:"context"` // Snapshot of request parameters

	// Decision outcome
	Status        string   `json:"status"` // "approved" or "blocked"
	RiskScore     float64  `json:"risk_score"`
	Violations    []string `json:"violations"`
	FailedRuleIDs []string `json:"failed_rule_ids"`
	RuleSetID     string   `json:"rule_set_id"` // Active rule set at decision time
	RulesChecked  int      `json:"rules_checked"`

	// Timestamps
	DecidedAt  time.Time `json:"decided_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Query defines filter parameters for reading audit records. All filters
// are conjunctive; zero values mean "no filter".
type Query struct {
	// Time range over DecidedAt, inclusive on both ends.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action,omitempty"`
	Status string `json:"status,omitempty"` // "approved" or "blocked"

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder is "asc" (default, decision-call order) or "desc".
	SortOrder string `json:"sort_order,omitempty"`
}

// Stats are aggregate statistics over a queried record range.
type Stats struct {
	Total         int64   `json:"total"`
	Approved      int64   `json:"approved"`
	Blocked       int64   `json:"blocked"`
	ApprovalRate  float64 `json:"approval_rate"`   // Approved / Total, 0 when empty
	MeanRiskScore float64 `json:"mean_risk_score"` // 0 when empty
}

// ComputeStats aggregates statistics over a set of records.
func ComputeStats(records []*AuditRecord) Stats {
	var s Stats
	var riskSum float64

	for _, r := range records {
		s.Total++
		switch r.Status {
		case StatusApproved:
			s.Approved++
		case StatusBlocked:
			s.Blocked++
		}
		riskSum += r.RiskScore
	}

	if s.Total > 0 {
		s.ApprovalRate = float64(s.Approved) / float64(s.Total)
		s.MeanRiskScore = riskSum / float64(s.Total)
	}
	return s
}

// Storage defines the contract for audit record backends. Implementations
// must be safe for concurrent use, must preserve append order, and must
// never expose a partially written record to readers.
type Storage interface {
	// Append persists one record. Append is the only mutation on the
	// decision path.
	Append(ctx context.Context, record *AuditRecord) error

	// Query retrieves records matching the filters, in append order unless
	// the query says otherwise. Returns an empty slice when nothing matches.
	Query(ctx context.Context, query *Query) ([]*AuditRecord, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many were
	// removed. Reserved for retention enforcement; decision-path code never
	// calls it.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}
