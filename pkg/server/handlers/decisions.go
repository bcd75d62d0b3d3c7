package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"sentra-labs/sentra/pkg/governance"
)

// decisionRequest is the body of POST /v1/decisions.
type decisionRequest struct {
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// DecisionHandler evaluates action requests against the active rule set.
type DecisionHandler struct {
	decider Decider
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(decider Decider) *DecisionHandler {
	return &DecisionHandler{decider: decider}
}

// ServeHTTP handles POST /v1/decisions. With no active rule set the
// request is denied with 503, never approved.
func (h *DecisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.UserID == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id and action are required")
		return
	}

	decision, err := h.decider.Decide(r.Context(), req.UserID, req.Action, req.Parameters)
	if err != nil {
		if errors.Is(err, governance.ErrNoActiveRuleSet) {
			writeError(w, http.StatusServiceUnavailable, "no_active_rule_set", "no policy has been published; all requests are denied")
			return
		}
		writeError(w, http.StatusInternalServerError, "decision_failed", "the request could not be evaluated")
		return
	}

	writeJSON(w, http.StatusOK, decision)
}
