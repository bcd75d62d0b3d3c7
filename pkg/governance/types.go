package governance

import "time"

// Status is the outcome of a governance decision.
type Status string

// Decision outcomes.
const (
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// Decision is the complete outcome of evaluating one action request
// against the active rule set.
type Decision struct {
	// Status is approved or blocked.
	Status Status `json:"status"`

	// RiskScore is the aggregate violation severity, always >= 0.
	RiskScore float64 `json:"risk_score"`

	// Violations are all violation messages across the rule set, in rule
	// order then constraint order.
	Violations []string `json:"violations"`

	// FailedRuleIDs lists the rules that did not pass, in rule order.
	FailedRuleIDs []string `json:"failed_rule_ids"`

	// Warnings lists failed rules below mandatory level. They surface to
	// the caller but do not force a block on their own.
	Warnings []string `json:"warnings,omitempty"`

	// RuleSetID identifies the snapshot the decision was made against.
	RuleSetID string `json:"rule_set_id"`

	// RulesChecked is the number of rules evaluated.
	RulesChecked int `json:"rules_checked"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`
}

// Blocked reports whether the decision blocks the action.
func (d *Decision) Blocked() bool {
	return d.Status == StatusBlocked
}
