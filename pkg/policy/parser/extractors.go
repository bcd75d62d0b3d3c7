package parser

import (
	"regexp"
	"strconv"
	"strings"

	"sentra-labs/sentra/pkg/policy"
)

// An extractor inspects one clause and emits zero or more constraints of a
// single kind. Extractors are pure functions of the clause text and run in
// a fixed order, which also fixes constraint order within a rule.
type extractor func(clause string) []policy.Constraint

// extractorChain is the ordered chain run over every classified clause.
var extractorChain = []extractor{
	extractEncryption,
	extractPII,
	extractMonetary,
	extractRetention,
	extractApproval,
}

// runExtractors applies the full chain to a clause.
func runExtractors(clause string) []policy.Constraint {
	var constraints []policy.Constraint
	for _, ex := range extractorChain {
		constraints = append(constraints, ex(clause)...)
	}
	return constraints
}

var (
	encryptionRe = regexp.MustCompile(`(?i)\bencrypt`)
	algorithmRe  = regexp.MustCompile(`(?i)\b(AES|RSA|SHA)[- ]?(\d{3,4})\b`)

	piiRe = regexp.MustCompile(`(?i)(personally identifiable|\bPII\b|personal data|customer information)`)

	comparatorRe = regexp.MustCompile(`(?i)\b(exceed(?:s|ing)?|more than|greater than|above|over|at least|minimum(?: of)?|no less than|less than|under|below|at most|no more than|up to)\s+\$?\s?([\d,]+(?:\.\d+)?)`)
	approvalsRe  = regexp.MustCompile(`(?i)\b([a-z]{2,})\s+(approval|review|authorization)\b`)

	retentionRe  = regexp.MustCompile(`(?i)(?:retain(?:ed)?|retention|keep|kept|maintain(?:ed)?).*?(\d+)\s+(day|month|year)s?`)
	recordTypeRe = regexp.MustCompile(`(?i)\b([a-z]+)\s+records?\b`)

	approvalPhraseRe = regexp.MustCompile(`(?i)(approval required|must be approved|requires authorization|approved by)`)
	approvedByRe     = regexp.MustCompile(`(?i)approved by\s+(?:a |an |the )?([a-z]+(?:\s+[a-z]+)?)`)
)

// approvalStopwords filters noise captures from the approvals regex
// ("for review", "requires approval").
var approvalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "be": {}, "for": {}, "must": {},
	"require": {}, "requires": {}, "the": {}, "with": {},
}

// extractEncryption emits an encryption_required constraint when the clause
// mentions encryption, capturing a named algorithm if one is present.
func extractEncryption(clause string) []policy.Constraint {
	if !encryptionRe.MatchString(clause) {
		return nil
	}

	c := policy.Constraint{Kind: policy.ConstraintEncryptionRequired}
	if m := algorithmRe.FindStringSubmatch(clause); m != nil {
		c.Algorithm = strings.ToUpper(m[1]) + "-" + m[2]
	}
	return []policy.Constraint{c}
}

// extractPII emits a pii_handling constraint when the clause references
// personal data. Consent and encryption sub-requirements both default to
// true: a PII clause in a compliance document implies both obligations.
func extractPII(clause string) []policy.Constraint {
	if !piiRe.MatchString(clause) {
		return nil
	}

	return []policy.Constraint{{
		Kind:               policy.ConstraintPIIHandling,
		RequiresConsent:    true,
		RequiresEncryption: true,
	}}
}

// extractMonetary parses a comparator word plus a numeric amount, and any
// named approval roles in the same clause, into a monetary_threshold
// constraint over the "amount" context field.
func extractMonetary(clause string) []policy.Constraint {
	m := comparatorRe.FindStringSubmatch(clause)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return nil
	}

	c := policy.Constraint{
		Kind:     policy.ConstraintMonetaryThreshold,
		Field:    "amount",
		Operator: comparatorOperator(m[1]),
		Value:    value,
	}

	for _, am := range approvalsRe.FindAllStringSubmatch(clause, -1) {
		role := strings.ToLower(am[1])
		if _, skip := approvalStopwords[role]; skip {
			continue
		}
		c.Approvals = append(c.Approvals, role+"_"+strings.ToLower(am[2]))
	}

	return []policy.Constraint{c}
}

// comparatorOperator maps a comparator phrase to its operator.
func comparatorOperator(word string) policy.Operator {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "at least", "no less than":
		return policy.OperatorGreaterEqual
	case "less than", "under", "below":
		return policy.OperatorLessThan
	case "at most", "no more than", "up to":
		return policy.OperatorLessEqual
	default:
		// exceed / exceeds / exceeding / more than / greater than / above /
		// over / minimum (of)
		if strings.HasPrefix(strings.ToLower(word), "minimum") {
			return policy.OperatorGreaterEqual
		}
		return policy.OperatorGreaterThan
	}
}

// retentionUnitDays normalizes retention units: year=365, month=30.
func retentionUnitDays(unit string) int {
	switch strings.ToLower(unit) {
	case "year":
		return 365
	case "month":
		return 30
	default:
		return 1
	}
}

// extractRetention parses a retention period (number + unit, normalized to
// days) and the record type it applies to. An empty record type means the
// constraint applies to any record.
func extractRetention(clause string) []policy.Constraint {
	m := retentionRe.FindStringSubmatch(clause)
	if m == nil {
		return nil
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	c := policy.Constraint{
		Kind:    policy.ConstraintRetention,
		MinDays: n * retentionUnitDays(m[2]),
	}
	if rt := recordTypeRe.FindStringSubmatch(clause); rt != nil {
		c.RecordType = strings.ToLower(rt[1])
	}
	return []policy.Constraint{c}
}

// extractApproval emits an approval_required constraint for standalone
// approval clauses. Clauses with a monetary amount are handled entirely by
// the monetary extractor, which folds the approval roles into the threshold
// constraint; emitting both would double-count the same obligation.
func extractApproval(clause string) []policy.Constraint {
	if !approvalPhraseRe.MatchString(clause) {
		return nil
	}
	if comparatorRe.MatchString(clause) {
		return nil
	}

	field := "approval_obtained"
	if m := approvedByRe.FindStringSubmatch(clause); m != nil {
		role := strings.ToLower(strings.TrimSpace(m[1]))
		field = strings.ReplaceAll(role, " ", "_") + "_approval"
	}

	return []policy.Constraint{{
		Kind:  policy.ConstraintApprovalRequired,
		Field: field,
	}}
}
