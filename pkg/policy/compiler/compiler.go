package compiler

import (
	"fmt"

	"sentra-labs/sentra/pkg/policy"
)

// Evaluator is a pure function from an execution context to the validation
// result for one rule. Evaluators never fail: missing context fields read
// as falsy/zero inside the constraint semantics.
type Evaluator func(ctx policy.ExecutionContext) policy.ValidationResult

// CompiledRule pairs an immutable rule with its evaluator.
type CompiledRule struct {
	Rule     policy.Rule
	Evaluate Evaluator
}

// CompiledRuleSet is the executable form of a RuleSet. It shares the
// underlying immutable RuleSet and adds one evaluator per rule, in rule
// order.
type CompiledRuleSet struct {
	Set   *policy.RuleSet
	Rules []CompiledRule
}

// Compile builds evaluators for every rule in the set. Compilation is pure
// and deterministic; it fails only on malformed rule data (an unknown
// constraint kind), which signals a parser defect.
func Compile(set *policy.RuleSet) (*CompiledRuleSet, error) {
	if set == nil {
		return nil, &CompileError{Message: "rule set cannot be nil"}
	}

	compiled := &CompiledRuleSet{
		Set:   set,
		Rules: make([]CompiledRule, 0, len(set.Rules)),
	}

	for _, rule := range set.Rules {
		for _, c := range rule.Constraints {
			if !c.Kind.Valid() {
				return nil, &CompileError{
					RuleID:  rule.RuleID,
					Kind:    string(c.Kind),
					Message: "unknown constraint kind",
				}
			}
		}
		compiled.Rules = append(compiled.Rules, CompiledRule{
			Rule:     rule,
			Evaluate: evaluatorFor(rule),
		})
	}

	return compiled, nil
}

// Evaluate applies one rule's constraint semantics to a context without
// going through a compiled set. Generated evaluator modules route through
// this so exported artifacts stay a serialization over rule data.
func Evaluate(rule policy.Rule, ctx policy.ExecutionContext) policy.ValidationResult {
	return evaluatorFor(rule)(ctx)
}

// evaluatorFor builds the pure evaluator closure for one rule. Constraints
// evaluate in extraction order with AND semantics: every constraint's
// violations accumulate and any violation fails the rule.
func evaluatorFor(rule policy.Rule) Evaluator {
	return func(ctx policy.ExecutionContext) policy.ValidationResult {
		result := policy.ValidationResult{
			RuleID:     rule.RuleID,
			Passed:     true,
			Violations: []string{},
		}

		for _, c := range rule.Constraints {
			violations := evalConstraint(rule, c, ctx)
			if len(violations) > 0 {
				result.Passed = false
				result.Violations = append(result.Violations, violations...)
			}
		}

		return result
	}
}

// evalConstraint applies one constraint's fixed semantics to a context and
// returns the violation messages, empty when the constraint holds.
func evalConstraint(rule policy.Rule, c policy.Constraint, ctx policy.ExecutionContext) []string {
	switch c.Kind {
	case policy.ConstraintEncryptionRequired:
		return evalEncryption(c, ctx)
	case policy.ConstraintPIIHandling:
		return evalPII(c, ctx)
	case policy.ConstraintMonetaryThreshold:
		return evalMonetary(rule, c, ctx)
	case policy.ConstraintRetention:
		return evalRetention(c, ctx)
	case policy.ConstraintApprovalRequired:
		return evalApproval(c, ctx)
	default:
		// Compile rejects unknown kinds before an evaluator exists.
		return []string{fmt.Sprintf("unknown constraint kind %q", c.Kind)}
	}
}

func evalEncryption(c policy.Constraint, ctx policy.ExecutionContext) []string {
	if !ctx.Bool("encryption_enabled") {
		msg := "encryption required but not enabled"
		if c.Algorithm != "" {
			msg = fmt.Sprintf("encryption required but not enabled (%s)", c.Algorithm)
		}
		return []string{msg}
	}

	if c.Algorithm != "" {
		if algo := ctx.String("encryption_algorithm"); algo != "" && algo != c.Algorithm {
			return []string{fmt.Sprintf("encryption algorithm mismatch: %s required, %s in use", c.Algorithm, algo)}
		}
	}
	return nil
}

// evalPII checks the consent and encryption sub-conditions independently;
// each failing sub-condition contributes its own message.
func evalPII(c policy.Constraint, ctx policy.ExecutionContext) []string {
	if !ctx.Bool("contains_pii") {
		return nil
	}

	var violations []string
	if c.RequiresConsent && !ctx.Bool("user_consent") {
		violations = append(violations, "PII processing requires user consent")
	}
	if c.RequiresEncryption && !ctx.Bool("encryption_enabled") {
		violations = append(violations, "PII must be encrypted")
	}
	return violations
}

// evalMonetary fires when the threshold comparison holds. Each missing
// approval is a separate violation. On prohibition rules with no approval
// roles the comparison holding is itself the violation.
func evalMonetary(rule policy.Rule, c policy.Constraint, ctx policy.ExecutionContext) []string {
	if !compare(ctx.Number(c.Field), c.Operator, c.Value) {
		return nil
	}

	if len(c.Approvals) == 0 {
		if rule.Prohibition {
			return []string{fmt.Sprintf("%s %s %.2f is prohibited", c.Field, c.Operator, c.Value)}
		}
		return nil
	}

	var violations []string
	for _, approval := range c.Approvals {
		if !ctx.Bool(approval) {
			violations = append(violations, fmt.Sprintf("missing approval: %s", approval))
		}
	}
	return violations
}

func evalRetention(c policy.Constraint, ctx policy.ExecutionContext) []string {
	if c.RecordType != "" && ctx.String("record_type") != c.RecordType {
		return nil
	}

	if days := ctx.Number("retention_days"); days < float64(c.MinDays) {
		return []string{fmt.Sprintf("retention period %.0f days is below the required %d days", days, c.MinDays)}
	}
	return nil
}

func evalApproval(c policy.Constraint, ctx policy.ExecutionContext) []string {
	if !ctx.Bool(c.Field) {
		return []string{fmt.Sprintf("missing approval: %s", c.Field)}
	}
	return nil
}

// compare evaluates a threshold comparison.
func compare(actual float64, op policy.Operator, expected float64) bool {
	switch op {
	case policy.OperatorGreaterThan:
		return actual > expected
	case policy.OperatorGreaterEqual:
		return actual >= expected
	case policy.OperatorLessThan:
		return actual < expected
	case policy.OperatorLessEqual:
		return actual <= expected
	case policy.OperatorEqual:
		return actual == expected
	default:
		return false
	}
}
