package risk

import (
	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
)

// BaseWeight is the score contribution of one violated constraint before
// level scaling.
const BaseWeight = 5.0

// Multiplier returns the level scaling factor.
func Multiplier(level policy.ComplianceLevel) float64 {
	switch level {
	case policy.LevelMandatory:
		return 2.0
	case policy.LevelRecommended:
		return 0.5
	default:
		return 1.0
	}
}

// Score computes the aggregate risk score for a validation run. Each
// violation message counts once; the result is floored at zero.
func Score(set *compiler.CompiledRuleSet, results []policy.ValidationResult) float64 {
	levels := make(map[string]policy.ComplianceLevel, len(set.Rules))
	for _, cr := range set.Rules {
		levels[cr.Rule.RuleID] = cr.Rule.ComplianceLevel
	}

	score := 0.0
	for _, r := range results {
		if r.Passed {
			continue
		}
		score += float64(len(r.Violations)) * BaseWeight * Multiplier(levels[r.RuleID])
	}

	if score < 0 {
		return 0
	}
	return score
}
