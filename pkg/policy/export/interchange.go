package export

import (
	"encoding/json"
	"io"
	"time"

	"sentra-labs/sentra/pkg/policy"
)

// Document is the JSON interchange form of a rule set: ordered rule
// objects plus upload diagnostics.
type Document struct {
	RuleSetID string        `json:"rule_set_id"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
	RuleCount int           `json:"rule_count"`
	Skipped   int           `json:"skipped"`
	Vacuous   int           `json:"vacuous"`
	Rules     []policy.Rule `json:"rules"`
}

// Interchange builds the interchange document for a rule set. Rule order
// is preserved.
func Interchange(set *policy.RuleSet) Document {
	rules := set.Rules
	if rules == nil {
		rules = []policy.Rule{}
	}
	return Document{
		RuleSetID: set.ID,
		Source:    set.Source,
		CreatedAt: set.CreatedAt,
		RuleCount: len(rules),
		Skipped:   set.Skipped,
		Vacuous:   set.Vacuous,
		Rules:     rules,
	}
}

// WriteInterchange writes the interchange document as JSON.
func WriteInterchange(w io.Writer, set *policy.RuleSet, pretty bool) error {
	doc := Interchange(set)

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
