package policy

import "testing"

func TestNewRuleSetDeduplicates(t *testing.T) {
	rules := []Rule{
		{RuleID: "aaa", Category: CategoryRisk, Description: "first occurrence"},
		{RuleID: "bbb", Category: CategoryGovernance},
		{RuleID: "aaa", Category: CategoryRisk, Description: "duplicate, dropped"},
	}

	set := NewRuleSet("policy.txt", rules, 2)

	if len(set.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(set.Rules))
	}
	if set.Rules[0].RuleID != "aaa" || set.Rules[1].RuleID != "bbb" {
		t.Errorf("dedup changed rule order: %s, %s", set.Rules[0].RuleID, set.Rules[1].RuleID)
	}
	if set.Rules[0].Description != "first occurrence" {
		t.Error("dedup should keep the first occurrence")
	}
	if set.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", set.Skipped)
	}
}

func TestNewRuleSetCountsVacuous(t *testing.T) {
	rules := []Rule{
		{RuleID: "aaa"},
		{RuleID: "bbb", Constraints: []Constraint{{Kind: ConstraintEncryptionRequired}}},
		{RuleID: "ccc"},
	}

	set := NewRuleSet("policy.txt", rules, 0)

	if set.Vacuous != 2 {
		t.Errorf("Vacuous = %d, want 2", set.Vacuous)
	}
}

func TestNewRuleSetIdentity(t *testing.T) {
	set1 := NewRuleSet("policy.txt", nil, 0)
	set2 := NewRuleSet("policy.txt", nil, 0)

	if set1.ID == "" {
		t.Fatal("rule set id should not be empty")
	}
	if set1.ID == set2.ID {
		t.Error("each rule set should get a fresh id")
	}
	if set1.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRuleSetCounts(t *testing.T) {
	set := NewRuleSet("policy.txt", []Rule{
		{RuleID: "a", Category: CategoryRisk, ComplianceLevel: LevelMandatory},
		{RuleID: "b", Category: CategoryRisk, ComplianceLevel: LevelRequired},
		{RuleID: "c", Category: CategoryCompliance, ComplianceLevel: LevelMandatory},
	}, 0)

	byCategory := set.CountByCategory()
	if byCategory[CategoryRisk] != 2 || byCategory[CategoryCompliance] != 1 {
		t.Errorf("CountByCategory = %v", byCategory)
	}

	byLevel := set.CountByLevel()
	if byLevel[LevelMandatory] != 2 || byLevel[LevelRequired] != 1 {
		t.Errorf("CountByLevel = %v", byLevel)
	}
}

func TestRuleSetLookup(t *testing.T) {
	set := NewRuleSet("policy.txt", []Rule{{RuleID: "abc", Description: "d"}}, 0)

	if r, ok := set.Rule("abc"); !ok || r.Description != "d" {
		t.Errorf("Rule(abc) = %+v, %v", r, ok)
	}
	if _, ok := set.Rule("zzz"); ok {
		t.Error("Rule(zzz) should not be found")
	}
}
