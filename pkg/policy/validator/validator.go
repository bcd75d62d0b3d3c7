package validator

import (
	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
)

// ValidateAll runs every rule's evaluator against the context and returns
// one result per rule, in rule order. The full rule set is always
// evaluated; a failing rule never hides later failures.
func ValidateAll(set *compiler.CompiledRuleSet, ctx policy.ExecutionContext) []policy.ValidationResult {
	results := make([]policy.ValidationResult, 0, len(set.Rules))
	for _, cr := range set.Rules {
		results = append(results, cr.Evaluate(ctx))
	}
	return results
}

// FailedRuleIDs returns the ids of rules that did not pass, in rule order.
func FailedRuleIDs(results []policy.ValidationResult) []string {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.RuleID)
		}
	}
	return failed
}

// Violations flattens all violation messages across results, preserving
// rule order then constraint order.
func Violations(results []policy.ValidationResult) []string {
	var all []string
	for _, r := range results {
		all = append(all, r.Violations...)
	}
	return all
}

// MandatoryFailed reports whether any mandatory-level rule failed. A single
// mandatory failure forces a blocked decision regardless of score.
func MandatoryFailed(set *compiler.CompiledRuleSet, results []policy.ValidationResult) bool {
	levels := make(map[string]policy.ComplianceLevel, len(set.Rules))
	for _, cr := range set.Rules {
		levels[cr.Rule.RuleID] = cr.Rule.ComplianceLevel
	}

	for _, r := range results {
		if !r.Passed && levels[r.RuleID] == policy.LevelMandatory {
			return true
		}
	}
	return false
}
