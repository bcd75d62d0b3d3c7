package validator

import (
	"reflect"
	"testing"

	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
)

// testSet compiles three rules: a mandatory encryption rule, a required
// approval rule, and a recommended vacuous rule.
func testSet(t *testing.T) *compiler.CompiledRuleSet {
	t.Helper()

	set := policy.NewRuleSet("test.txt", []policy.Rule{
		{
			RuleID:          "rule-enc",
			ComplianceLevel: policy.LevelMandatory,
			Constraints:     []policy.Constraint{{Kind: policy.ConstraintEncryptionRequired}},
		},
		{
			RuleID:          "rule-appr",
			ComplianceLevel: policy.LevelRequired,
			Constraints:     []policy.Constraint{{Kind: policy.ConstraintApprovalRequired, Field: "approval_obtained"}},
		},
		{
			RuleID:          "rule-vac",
			ComplianceLevel: policy.LevelRecommended,
		},
	}, 0)

	compiled, err := compiler.Compile(set)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return compiled
}

func TestValidateAllEvaluatesEveryRule(t *testing.T) {
	compiled := testSet(t)

	results := ValidateAll(compiled, policy.ExecutionContext{})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := []string{"rule-enc", "rule-appr", "rule-vac"}
	for i, r := range results {
		if r.RuleID != want[i] {
			t.Errorf("result %d is %s, want %s", i, r.RuleID, want[i])
		}
	}

	// An early failure must not short-circuit later rules.
	if results[0].Passed {
		t.Error("encryption rule should fail on empty context")
	}
	if !results[2].Passed {
		t.Error("vacuous rule should still be evaluated and pass")
	}
}

func TestFailedRuleIDs(t *testing.T) {
	compiled := testSet(t)

	results := ValidateAll(compiled, policy.ExecutionContext{"encryption_enabled": true})

	got := FailedRuleIDs(results)
	if !reflect.DeepEqual(got, []string{"rule-appr"}) {
		t.Errorf("FailedRuleIDs = %v", got)
	}
}

func TestViolationsPreserveOrder(t *testing.T) {
	compiled := testSet(t)

	results := ValidateAll(compiled, policy.ExecutionContext{})
	violations := Violations(results)

	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(violations))
	}
	// Rule order: encryption violation first, then the approval one.
	if violations[0] != "encryption required but not enabled" {
		t.Errorf("first violation = %q", violations[0])
	}
	if violations[1] != "missing approval: approval_obtained" {
		t.Errorf("second violation = %q", violations[1])
	}
}

func TestMandatoryFailed(t *testing.T) {
	compiled := testSet(t)

	tests := []struct {
		name string
		ctx  policy.ExecutionContext
		want bool
	}{
		{"mandatory rule fails", policy.ExecutionContext{}, true},
		{"only required rule fails", policy.ExecutionContext{"encryption_enabled": true}, false},
		{"everything passes", policy.ExecutionContext{"encryption_enabled": true, "approval_obtained": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := ValidateAll(compiled, tt.ctx)
			if got := MandatoryFailed(compiled, results); got != tt.want {
				t.Errorf("MandatoryFailed = %v, want %v", got, tt.want)
			}
		})
	}
}
