package parser

import (
	"strings"

	"sentra-labs/sentra/pkg/policy"
)

// Keyword families for compliance level classification. Prohibition phrases
// are checked before the mandatory family because every prohibition phrase
// contains a mandatory keyword ("must not" contains "must").
var (
	prohibitionKeywords = []string{"must not", "shall not", "prohibited", "forbidden"}
	mandatoryKeywords   = []string{"must", "shall", "require", "mandatory"}
	recommendedKeywords = []string{"should", "recommended", "advised to"}
)

// Category lexicons, matched in fixed priority order
// Governance > Risk > Compliance. A clause matching none defaults to
// Compliance.
var (
	governanceKeywords = []string{"approval", "authorization", "oversight", "board", "committee", "steward"}
	riskKeywords       = []string{"risk", "threat", "vulnerability", "security", "breach", "suspicious"}
)

// classifyLevel determines the compliance level of a clause. The second
// return value marks prohibition-family clauses, which are mandatory with
// inverted ("forbid") threshold semantics. ok is false when the clause
// matches no keyword family; such clauses still become required-level rules
// when a constraint extractor fires on them, otherwise they are skipped.
// Note "require" covers the requires/required/required-to forms.
func classifyLevel(clause string) (level policy.ComplianceLevel, prohibition, ok bool) {
	lower := strings.ToLower(clause)

	if containsAny(lower, prohibitionKeywords) {
		return policy.LevelMandatory, true, true
	}
	if containsAny(lower, mandatoryKeywords) {
		return policy.LevelMandatory, false, true
	}
	if containsAny(lower, recommendedKeywords) {
		return policy.LevelRecommended, false, true
	}
	return "", false, false
}

// classifyCategory buckets a clause into Governance, Risk, or Compliance.
func classifyCategory(clause string) policy.Category {
	lower := strings.ToLower(clause)

	if containsAny(lower, governanceKeywords) {
		return policy.CategoryGovernance
	}
	if containsAny(lower, riskKeywords) {
		return policy.CategoryRisk
	}
	return policy.CategoryCompliance
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
