package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/export"
	"sentra-labs/sentra/pkg/policy/store"
)

// RuleSetHandler serves the rule set archive: listing published sets and
// exporting one as interchange JSON or a generated validation module.
type RuleSetHandler struct {
	snapshots *store.SnapshotStore
	archive   *store.Archive
}

// NewRuleSetHandler creates a new rule set handler.
func NewRuleSetHandler(snapshots *store.SnapshotStore, archive *store.Archive) *RuleSetHandler {
	return &RuleSetHandler{snapshots: snapshots, archive: archive}
}

// rulesetListResponse is the body of GET /v1/rulesets.
type rulesetListResponse struct {
	ActiveRuleSetID string             `json:"active_rule_set_id,omitempty"`
	RuleSets        []rulesetListEntry `json:"rule_sets"`
}

type rulesetListEntry struct {
	ID        string    `json:"rule_set_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// ServeHTTP routes GET /v1/rulesets and GET /v1/rulesets/{id}/export.
func (h *RuleSetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/rulesets"), "/")
	switch {
	case rest == "":
		h.list(w, r)
	case strings.HasSuffix(rest, "/export"):
		h.export(w, r, strings.TrimSuffix(rest, "/export"))
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown rule set resource")
	}
}

func (h *RuleSetHandler) list(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusNotImplemented, "archive_disabled", "the rule set archive is not configured")
		return
	}

	entries, err := h.archive.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", "could not list rule sets")
		return
	}

	activeID := h.snapshots.ActiveID()

	resp := rulesetListResponse{
		ActiveRuleSetID: activeID,
		RuleSets:        make([]rulesetListEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.RuleSets = append(resp.RuleSets, rulesetListEntry{
			ID:        e.ID,
			Source:    e.Source,
			CreatedAt: e.CreatedAt,
			Active:    e.ID == activeID,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// export serves one rule set in the requested format. The id "active"
// resolves to the currently published set.
func (h *RuleSetHandler) export(w http.ResponseWriter, r *http.Request, id string) {
	set, ok := h.resolve(w, r, id)
	if !ok {
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteInterchange(w, set, true); err != nil {
			writeError(w, http.StatusInternalServerError, "export_failed", "could not export rule set")
		}
	case "module":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := export.WriteModule(w, set, "policyrules"); err != nil {
			writeError(w, http.StatusInternalServerError, "export_failed", "could not generate validation module")
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be json or module")
	}
}

func (h *RuleSetHandler) resolve(w http.ResponseWriter, r *http.Request, id string) (*policy.RuleSet, bool) {
	if id == "active" {
		activeID := h.snapshots.ActiveID()
		if activeID == "" {
			writeError(w, http.StatusNotFound, "no_active_rule_set", "no policy has been published")
			return nil, false
		}
		id = activeID
	}

	if h.archive == nil {
		writeError(w, http.StatusNotImplemented, "archive_disabled", "the rule set archive is not configured")
		return nil, false
	}

	set, err := h.archive.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRuleSetNotFound) {
			writeError(w, http.StatusNotFound, "rule_set_not_found", "no rule set with that id")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "export_failed", "could not load rule set")
		return nil, false
	}
	return set, true
}
