package governance

import (
	"errors"
	"fmt"
)

// ErrNoActiveRuleSet is returned when a decision is requested before any
// rule set has been published. Enforcement denies in that state.
var ErrNoActiveRuleSet = errors.New("no active rule set")

// DecisionError represents a governance call that could not produce a
// decision. The action is treated as denied.
type DecisionError struct {
	UserID string
	Action string
	Cause  error
}

// Error implements the error interface.
func (e *DecisionError) Error() string {
	return fmt.Sprintf("governance decision failed [user=%s, action=%s]: %v", e.UserID, e.Action, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DecisionError) Unwrap() error {
	return e.Cause
}

// NewDecisionError creates a new DecisionError.
func NewDecisionError(userID, action string, cause error) *DecisionError {
	return &DecisionError{UserID: userID, Action: action, Cause: cause}
}
