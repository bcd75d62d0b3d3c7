package compiler

import (
	"errors"
	"reflect"
	"testing"

	"sentra-labs/sentra/pkg/policy"
)

func compileRules(t *testing.T, rules ...policy.Rule) *CompiledRuleSet {
	t.Helper()

	set := policy.NewRuleSet("test.txt", rules, 0)
	compiled, err := Compile(set)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return compiled
}

func TestCompileNilSet(t *testing.T) {
	if _, err := Compile(nil); err == nil {
		t.Error("Compile(nil) should fail")
	}
}

func TestCompileRejectsUnknownKind(t *testing.T) {
	set := policy.NewRuleSet("test.txt", []policy.Rule{{
		RuleID:      "bad",
		Constraints: []policy.Constraint{{Kind: "custom_check"}},
	}}, 0)

	_, err := Compile(set)
	if err == nil {
		t.Fatal("Compile() should reject unknown constraint kinds")
	}

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error type = %T, want *CompileError", err)
	}
	if compileErr.RuleID != "bad" {
		t.Errorf("CompileError.RuleID = %q", compileErr.RuleID)
	}
}

func TestEncryptionConstraint(t *testing.T) {
	rule := policy.Rule{
		RuleID:      "enc",
		Constraints: []policy.Constraint{{Kind: policy.ConstraintEncryptionRequired, Algorithm: "AES-256"}},
	}
	compiled := compileRules(t, rule)
	eval := compiled.Rules[0].Evaluate

	tests := []struct {
		name       string
		ctx        policy.ExecutionContext
		passed     bool
		violations int
	}{
		{"enabled with matching algorithm", policy.ExecutionContext{"encryption_enabled": true, "encryption_algorithm": "AES-256"}, true, 0},
		{"enabled without naming algorithm", policy.ExecutionContext{"encryption_enabled": true}, true, 0},
		{"enabled with wrong algorithm", policy.ExecutionContext{"encryption_enabled": true, "encryption_algorithm": "DES"}, false, 1},
		{"disabled", policy.ExecutionContext{"encryption_enabled": false}, false, 1},
		{"field missing fails closed", policy.ExecutionContext{}, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eval(tt.ctx)
			if result.Passed != tt.passed || len(result.Violations) != tt.violations {
				t.Errorf("got passed=%v violations=%v", result.Passed, result.Violations)
			}
		})
	}
}

func TestPIIConstraint(t *testing.T) {
	rule := policy.Rule{
		RuleID: "pii",
		Constraints: []policy.Constraint{{
			Kind:               policy.ConstraintPIIHandling,
			RequiresConsent:    true,
			RequiresEncryption: true,
		}},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate

	tests := []struct {
		name       string
		ctx        policy.ExecutionContext
		violations int
	}{
		{"no pii involved", policy.ExecutionContext{"contains_pii": false}, 0},
		{"pii with both satisfied", policy.ExecutionContext{"contains_pii": true, "user_consent": true, "encryption_enabled": true}, 0},
		{"pii missing consent", policy.ExecutionContext{"contains_pii": true, "encryption_enabled": true}, 1},
		{"pii missing both", policy.ExecutionContext{"contains_pii": true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eval(tt.ctx)
			if len(result.Violations) != tt.violations {
				t.Errorf("violations = %v, want %d", result.Violations, tt.violations)
			}
		})
	}
}

func TestMonetaryThresholdConstraint(t *testing.T) {
	rule := policy.Rule{
		RuleID: "mon",
		Constraints: []policy.Constraint{{
			Kind:      policy.ConstraintMonetaryThreshold,
			Field:     "amount",
			Operator:  policy.OperatorGreaterThan,
			Value:     10000,
			Approvals: []string{"manager_approval", "aml_review"},
		}},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate

	tests := []struct {
		name       string
		ctx        policy.ExecutionContext
		violations int
	}{
		{"below threshold", policy.ExecutionContext{"amount": 5000.0}, 0},
		{"at threshold does not fire", policy.ExecutionContext{"amount": 10000.0}, 0},
		{"above with all approvals", policy.ExecutionContext{"amount": 15000.0, "manager_approval": true, "aml_review": true}, 0},
		{"above missing one approval", policy.ExecutionContext{"amount": 15000.0, "manager_approval": false, "aml_review": true}, 1},
		{"above missing all approvals", policy.ExecutionContext{"amount": 15000.0}, 2},
		{"amount missing reads as zero", policy.ExecutionContext{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eval(tt.ctx)
			if len(result.Violations) != tt.violations {
				t.Errorf("violations = %v, want %d", result.Violations, tt.violations)
			}
		})
	}
}

func TestProhibitionThresholdForbids(t *testing.T) {
	rule := policy.Rule{
		RuleID:      "forbid",
		Prohibition: true,
		Constraints: []policy.Constraint{{
			Kind:     policy.ConstraintMonetaryThreshold,
			Field:    "amount",
			Operator: policy.OperatorGreaterThan,
			Value:    100000,
		}},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate

	if result := eval(policy.ExecutionContext{"amount": 50000.0}); !result.Passed {
		t.Errorf("below the prohibited threshold should pass, got %v", result.Violations)
	}
	if result := eval(policy.ExecutionContext{"amount": 150000.0}); result.Passed {
		t.Error("above the prohibited threshold should fail")
	}
}

func TestRetentionConstraint(t *testing.T) {
	rule := policy.Rule{
		RuleID: "ret",
		Constraints: []policy.Constraint{{
			Kind:       policy.ConstraintRetention,
			RecordType: "transaction",
			MinDays:    2555,
		}},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate

	tests := []struct {
		name   string
		ctx    policy.ExecutionContext
		passed bool
	}{
		{"matching type below minimum", policy.ExecutionContext{"record_type": "transaction", "retention_days": 365.0}, false},
		{"matching type above minimum", policy.ExecutionContext{"record_type": "transaction", "retention_days": 2600.0}, true},
		{"different type not checked", policy.ExecutionContext{"record_type": "log", "retention_days": 1.0}, true},
		{"no record type field skips", policy.ExecutionContext{"retention_days": 2600.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := eval(tt.ctx); result.Passed != tt.passed {
				t.Errorf("passed = %v, violations = %v", result.Passed, result.Violations)
			}
		})
	}
}

func TestApprovalConstraint(t *testing.T) {
	rule := policy.Rule{
		RuleID:      "appr",
		Constraints: []policy.Constraint{{Kind: policy.ConstraintApprovalRequired, Field: "security_officer_approval"}},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate

	if result := eval(policy.ExecutionContext{"security_officer_approval": true}); !result.Passed {
		t.Error("granted approval should pass")
	}
	if result := eval(policy.ExecutionContext{}); result.Passed {
		t.Error("missing approval field should fail closed")
	}
}

func TestEvaluationDeterministic(t *testing.T) {
	rule := policy.Rule{
		RuleID: "det",
		Constraints: []policy.Constraint{
			{Kind: policy.ConstraintEncryptionRequired},
			{Kind: policy.ConstraintPIIHandling, RequiresConsent: true, RequiresEncryption: true},
		},
	}
	eval := compileRules(t, rule).Rules[0].Evaluate
	ctx := policy.ExecutionContext{"contains_pii": true}

	first := eval(ctx)
	for i := 0; i < 10; i++ {
		if next := eval(ctx); !reflect.DeepEqual(first, next) {
			t.Fatalf("evaluation %d differs: %+v vs %+v", i, first, next)
		}
	}
}

func TestVacuousRuleAlwaysPasses(t *testing.T) {
	eval := compileRules(t, policy.Rule{RuleID: "vac"}).Rules[0].Evaluate

	if result := eval(policy.ExecutionContext{}); !result.Passed {
		t.Error("rule with no constraints should pass")
	}
}

func TestStandaloneEvaluateMatchesCompiled(t *testing.T) {
	rule := policy.Rule{
		RuleID:      "match",
		Constraints: []policy.Constraint{{Kind: policy.ConstraintEncryptionRequired}},
	}
	ctx := policy.ExecutionContext{"encryption_enabled": false}

	compiled := compileRules(t, rule).Rules[0].Evaluate(ctx)
	standalone := Evaluate(rule, ctx)

	if !reflect.DeepEqual(compiled, standalone) {
		t.Errorf("Evaluate() = %+v, compiled evaluator = %+v", standalone, compiled)
	}
}
