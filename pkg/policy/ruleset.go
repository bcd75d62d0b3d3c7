package policy

import (
	"time"

	"github.com/google/uuid"
)

// RuleSet is an immutable, versioned, ordered collection of rules compiled
// from one policy document. Rule ids are unique within a set. The set itself
// never changes after construction; republishing a policy produces a new
// RuleSet with a new id.
type RuleSet struct {
	// ID is the unique version identifier for this snapshot.
	ID string `json:"rule_set_id"`

	// CreatedAt is when the set was compiled.
	CreatedAt time.Time `json:"created_at"`

	// Source is the filename of the policy document the set was parsed from.
	Source string `json:"source"`

	// Rules is the ordered rule list, in extraction order with duplicates
	// removed (first occurrence wins).
	Rules []Rule `json:"rules"`

	// Skipped counts clauses that matched no compliance keyword family and
	// were dropped. Diagnostic only.
	Skipped int `json:"skipped"`

	// Vacuous counts rules that carry no constraints and therefore always
	// pass. Diagnostic only.
	Vacuous int `json:"vacuous"`
}

// NewRuleSet builds a RuleSet from parsed rules, deduplicating by rule id
// while preserving extraction order. The skipped count is carried through
// for diagnostics.
func NewRuleSet(source string, rules []Rule, skipped int) *RuleSet {
	seen := make(map[string]struct{}, len(rules))
	deduped := make([]Rule, 0, len(rules))
	vacuous := 0

	for _, r := range rules {
		if _, ok := seen[r.RuleID]; ok {
			continue
		}
		seen[r.RuleID] = struct{}{}
		if r.IsVacuous() {
			vacuous++
		}
		deduped = append(deduped, r)
	}

	return &RuleSet{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Rules:     deduped,
		Skipped:   skipped,
		Vacuous:   vacuous,
	}
}

// CountByCategory returns the number of rules per category.
func (s *RuleSet) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, r := range s.Rules {
		counts[r.Category]++
	}
	return counts
}

// CountByLevel returns the number of rules per compliance level.
func (s *RuleSet) CountByLevel() map[ComplianceLevel]int {
	counts := make(map[ComplianceLevel]int)
	for _, r := range s.Rules {
		counts[r.ComplianceLevel]++
	}
	return counts
}

// Rule returns the rule with the given id, if present.
func (s *RuleSet) Rule(id string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.RuleID == id {
			return r, true
		}
	}
	return Rule{}, false
}
