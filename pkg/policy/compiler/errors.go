package compiler

import "fmt"

// CompileError reports malformed rule data reaching the compiler. This is
// an internal fault: the parser only emits known constraint kinds, so a
// CompileError always signals a defect upstream, never bad user input.
type CompileError struct {
	RuleID  string
	Kind    string
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("compile error [rule_id=%s, kind=%s]: %s", e.RuleID, e.Kind, e.Message)
	}
	return fmt.Sprintf("compile error [rule_id=%s]: %s", e.RuleID, e.Message)
}
