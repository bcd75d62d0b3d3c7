package parser

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"sentra-labs/sentra/pkg/policy"
)

// Result is the output of parsing one policy document: the extracted rules
// in clause order (before deduplication) and the count of clauses that
// matched no compliance keyword family.
type Result struct {
	Rules   []policy.Rule
	Skipped int
}

// Parser extracts structured rules from normalized policy text.
// The zero value is not usable; construct with New.
type Parser struct {
	logger *slog.Logger
}

// New creates a parser. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With("component", "policy.parser")}
}

// Parse segments text into clauses and builds a rule for every clause that
// matches a compliance keyword family. Parsing never fails on content; the
// only error condition is context cancellation, since policy documents are
// the one externally-sized input the pipeline touches.
func (p *Parser) Parse(ctx context.Context, text, source string) (*Result, error) {
	result := &Result{}

	for _, clause := range splitClauses(text) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		constraints := runExtractors(clause.text)

		level, prohibition, ok := classifyLevel(clause.text)
		if !ok {
			// A clause with no level keyword still expresses an obligation
			// when a constraint extractor recognizes it ("Transaction logs:
			// retention period 90 days"). Those default to required level.
			if len(constraints) == 0 {
				result.Skipped++
				continue
			}
			level = policy.LevelRequired
		}

		category := classifyCategory(clause.text)

		rule := policy.Rule{
			RuleID:          policy.RuleID(clause.text, category),
			Category:        category,
			Subcategory:     subcategoryFor(constraints),
			Description:     clause.text,
			ComplianceLevel: level,
			Prohibition:     prohibition,
			Constraints:     constraints,
			SourceDocument:  source,
			SectionRef:      clause.section,
		}

		if rule.IsVacuous() {
			// A rule with no constraints always passes and gives a false
			// impression of enforcement coverage.
			p.logger.Warn("clause matched a compliance keyword but yielded no constraints",
				"rule_id", rule.RuleID,
				"clause", truncate(clause.text, 120),
			)
		}

		result.Rules = append(result.Rules, rule)
	}

	return result, nil
}

// clause is one candidate policy statement with the section it appeared in.
type clause struct {
	text    string
	section string
}

var (
	allCapsHeaderRe  = regexp.MustCompile(`^[A-Z][A-Z\s&/-]{4,}$`)
	numberedHeaderRe = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+[A-Z][A-Z\s&/-]{3,}$`)
	clauseNumberRe   = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)
)

// splitClauses segments text at paragraph, sentence, and numbered-section
// boundaries. Section headings (numbered all-caps titles or standalone
// all-caps lines) set the section label for the clauses that follow and are
// not themselves clause candidates.
func splitClauses(text string) []clause {
	var clauses []clause
	section := "General"

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if allCapsHeaderRe.MatchString(line) || numberedHeaderRe.MatchString(line) {
			section = line
			continue
		}

		// Strip clause numbering ("1.1 ") so identical clauses in
		// differently numbered documents hash to the same rule id.
		line = clauseNumberRe.ReplaceAllString(line, "")

		for _, sentence := range splitSentences(line) {
			clauses = append(clauses, clause{text: sentence, section: section})
		}
	}

	return clauses
}

// splitSentences splits a paragraph at sentence boundaries: a period
// followed by whitespace and an uppercase letter. Periods inside numbers
// ("$10,000.50", "TLS 1.2") do not split.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' || i+2 >= len(runes) {
			continue
		}
		if unicode.IsSpace(runes[i+1]) && unicode.IsUpper(runes[i+2]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, strings.TrimSuffix(s, "."))
			}
			start = i + 1
		}
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, strings.TrimSuffix(s, "."))
	}

	return sentences
}

// subcategoryFor derives the free-text subcategory from the first extracted
// constraint kind, mirroring how clauses are usually titled in compliance
// matrices.
func subcategoryFor(constraints []policy.Constraint) string {
	if len(constraints) == 0 {
		return "general"
	}
	switch constraints[0].Kind {
	case policy.ConstraintEncryptionRequired:
		return "encryption"
	case policy.ConstraintPIIHandling:
		return "pii_handling"
	case policy.ConstraintMonetaryThreshold:
		return "monetary_threshold"
	case policy.ConstraintRetention:
		return "data_retention"
	case policy.ConstraintApprovalRequired:
		return "approval"
	default:
		return "general"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
