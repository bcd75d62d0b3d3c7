package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sentra-labs/sentra/pkg/policy"
)

// moduleHeader opens the generated evaluator module. The rule data rides
// along as an embedded JSON blob decoded once at init; each routine looks
// its rule up by id and defers to the shared constraint evaluator.
const moduleHeader = `// Code generated by sentra export; DO NOT EDIT.

// Package %s contains one evaluator routine per rule of rule set
// %s, following the validate_<rule_id> naming convention.
package %s

import (
	"encoding/json"

	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
)

var rules = mustDecodeRules(rulesJSON)

func mustDecodeRules(data string) map[string]policy.Rule {
	var list []policy.Rule
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		panic("generated rule data is corrupt: " + err.Error())
	}
	byID := make(map[string]policy.Rule, len(list))
	for _, r := range list {
		byID[r.RuleID] = r
	}
	return byID
}
`

// WriteModule renders the generated evaluator module for a rule set as Go
// source. pkgName must be a valid Go package identifier.
func WriteModule(w io.Writer, set *policy.RuleSet, pkgName string) error {
	if pkgName == "" {
		pkgName = "rules"
	}

	rulesJSON, err := json.Marshal(set.Rules)
	if err != nil {
		return fmt.Errorf("failed to serialize rules: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, moduleHeader, pkgName, set.ID, pkgName)
	b.WriteString("\nconst rulesJSON = `")
	b.Write(escapeBackquotes(rulesJSON))
	b.WriteString("`\n")

	for _, rule := range set.Rules {
		fmt.Fprintf(&b, `
// validate_%s checks: %s
func validate_%s(ctx policy.ExecutionContext) policy.ValidationResult {
	return compiler.Evaluate(rules[%q], ctx)
}
`, rule.RuleID, sanitizeComment(rule.Description), rule.RuleID, rule.RuleID)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// escapeBackquotes keeps the embedded JSON safe inside a raw string
// literal. JSON encodes backquotes verbatim, so they are re-encoded as a
// unicode escape, which json.Unmarshal reads back identically.
func escapeBackquotes(data []byte) []byte {
	return []byte(strings.ReplaceAll(string(data), "`", `\u0060`))
}

// sanitizeComment keeps rule descriptions from breaking out of a line
// comment.
func sanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}
