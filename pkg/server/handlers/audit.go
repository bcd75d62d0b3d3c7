package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"sentra-labs/sentra/pkg/audit"
)

// defaultAuditLimit caps unpaginated audit queries so a curl against a
// year of history does not stream the whole table.
const defaultAuditLimit = 100

// AuditHandler serves the decision history: filtered record queries and
// aggregate statistics.
type AuditHandler struct {
	storage audit.Storage
}

// NewAuditHandler creates a new audit query handler.
func NewAuditHandler(storage audit.Storage) *AuditHandler {
	return &AuditHandler{storage: storage}
}

// auditListResponse is the body of GET /v1/audit.
type auditListResponse struct {
	Records []*audit.AuditRecord `json:"records"`
	Count   int                  `json:"count"`
	Total   int64                `json:"total"`
}

// ServeHTTP routes GET /v1/audit and GET /v1/audit/stats.
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/audit"), "/")
	switch rest {
	case "":
		h.query(w, r)
	case "stats":
		h.stats(w, r)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown audit resource")
	}
}

func (h *AuditHandler) query(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultAuditLimit
	}

	records, err := h.storage.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "could not query audit records")
		return
	}

	total, err := h.storage.Count(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "could not count audit records")
		return
	}

	writeJSON(w, http.StatusOK, auditListResponse{
		Records: records,
		Count:   len(records),
		Total:   total,
	})
}

// stats aggregates over every record matching the filters, ignoring
// pagination parameters.
func (h *AuditHandler) stats(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	q.Limit = 0
	q.Offset = 0

	records, err := h.storage.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "could not query audit records")
		return
	}

	writeJSON(w, http.StatusOK, audit.ComputeStats(records))
}

// parseQuery builds an audit query from URL parameters: start and end
// (RFC 3339), user_id, action, status, limit, offset, and order.
func parseQuery(r *http.Request) (*audit.Query, error) {
	params := r.URL.Query()
	q := &audit.Query{
		UserID:    params.Get("user_id"),
		Action:    params.Get("action"),
		Status:    params.Get("status"),
		SortOrder: params.Get("order"),
	}

	if v := params.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, &queryParamError{param: "start", value: v}
		}
		q.StartTime = &t
	}
	if v := params.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, &queryParamError{param: "end", value: v}
		}
		q.EndTime = &t
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, &queryParamError{param: "limit", value: v}
		}
		q.Limit = n
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, &queryParamError{param: "offset", value: v}
		}
		q.Offset = n
	}

	return q, nil
}

type queryParamError struct {
	param string
	value string
}

func (e *queryParamError) Error() string {
	return "invalid value for " + e.param + ": " + e.value
}
