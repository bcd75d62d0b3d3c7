package policy

import (
	"crypto/sha256"
	"fmt"
)

// ComplianceLevel represents how binding a rule is.
type ComplianceLevel string

const (
	// LevelMandatory rules block a request when violated.
	LevelMandatory ComplianceLevel = "mandatory"

	// LevelRequired rules contribute to the risk score but do not block on their own.
	LevelRequired ComplianceLevel = "required"

	// LevelRecommended rules surface as warnings only.
	LevelRecommended ComplianceLevel = "recommended"
)

// Valid returns true if the compliance level is one of the known levels.
func (l ComplianceLevel) Valid() bool {
	switch l {
	case LevelMandatory, LevelRequired, LevelRecommended:
		return true
	}
	return false
}

// Category classifies a rule along the governance/risk/compliance axis.
type Category string

const (
	CategoryGovernance Category = "Governance"
	CategoryRisk       Category = "Risk"
	CategoryCompliance Category = "Compliance"
)

// Rule is the compiled, classified representation of a single policy clause.
// Rules are immutable once constructed; callers must not modify the
// Constraints slice after handing a Rule to the compiler.
type Rule struct {
	// RuleID is a stable hash of the clause text and category. Reprocessing
	// an identical clause yields the same id.
	RuleID string `json:"rule_id"`

	// Category is the governance/risk/compliance classification.
	Category Category `json:"category"`

	// Subcategory is free text, typically the section heading the clause
	// appeared under.
	Subcategory string `json:"subcategory"`

	// Description is the original clause text.
	Description string `json:"description"`

	// ComplianceLevel is how binding the rule is.
	ComplianceLevel ComplianceLevel `json:"compliance_level"`

	// Prohibition marks rules extracted from prohibition-family clauses
	// ("must not", "shall not", "prohibited"). Prohibitions are mandatory;
	// threshold constraints with no approval roles invert to a forbid check.
	Prohibition bool `json:"prohibition,omitempty"`

	// Constraints is the ordered list of checkable conditions. All
	// constraints must hold for the rule to pass (AND semantics). An empty
	// list means the rule always passes.
	Constraints []Constraint `json:"constraints"`

	// SourceDocument is the filename the clause was extracted from.
	SourceDocument string `json:"source_document,omitempty"`

	// SectionRef is the section label the clause appeared under.
	SectionRef string `json:"section_reference,omitempty"`
}

// IsVacuous returns true if the rule carries no constraints and therefore
// always passes. Vacuous rules create a false impression of enforcement
// coverage and are counted separately by the parser.
func (r *Rule) IsVacuous() bool {
	return len(r.Constraints) == 0
}

// RuleID computes the stable identifier for a clause. Identical clause text
// and category always produce the same id, which underwrites parse
// idempotence and rule deduplication.
func RuleID(clause string, category Category) string {
	sum := sha256.Sum256([]byte(string(category) + ":" + clause))
	return fmt.Sprintf("%x", sum)[:12]
}

// ValidationResult is the outcome of evaluating one rule against one
// execution context.
type ValidationResult struct {
	RuleID     string   `json:"rule_id"`
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations"`
}
