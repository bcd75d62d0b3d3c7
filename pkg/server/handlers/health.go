package handlers

import (
	"net/http"
	"time"

	"sentra-labs/sentra/pkg/policy/store"
)

// HealthHandler handles health check requests for liveness probes. The
// response also reports whether a rule set is active, since a service
// with no published policy denies every decision.
type HealthHandler struct {
	snapshots *store.SnapshotStore
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(snapshots *store.SnapshotStore) *HealthHandler {
	return &HealthHandler{snapshots: snapshots}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	response := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	}
	if id := h.snapshots.ActiveID(); id != "" {
		response["active_rule_set_id"] = id
		response["active_rules"] = h.snapshots.RuleCount()
	}

	writeJSON(w, http.StatusOK, response)
}
