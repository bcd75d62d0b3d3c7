package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/audit/storage"
)

func seededAuditStorage(t *testing.T) *storage.MemoryStorage {
	t.Helper()

	mem := storage.NewMemoryStorage()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		status := audit.StatusApproved
		var score float64
		if i%2 == 0 {
			status = audit.StatusBlocked
			score = 25
		}
		user := "alice"
		if i >= 3 {
			user = "bob"
		}
		err := mem.Append(context.Background(), &audit.AuditRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			UserID:    user,
			Action:    "transfer",
			Status:    status,
			RiskScore: score,
			DecidedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return mem
}

func getAudit(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAuditList(t *testing.T, rec *httptest.ResponseRecorder) auditListResponse {
	t.Helper()

	var resp auditListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestAuditQueryAll(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	rec := getAudit(h, "/v1/audit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeAuditList(t, rec)
	if resp.Count != 6 || resp.Total != 6 || len(resp.Records) != 6 {
		t.Errorf("count/total = %d/%d", resp.Count, resp.Total)
	}
	if resp.Records[0].ID != "rec-0" {
		t.Errorf("first record = %s, want append order", resp.Records[0].ID)
	}
}

func TestAuditQueryFilters(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	tests := []struct {
		name  string
		path  string
		count int
		total int64
	}{
		{"by user", "/v1/audit?user_id=alice", 3, 3},
		{"by status", "/v1/audit?status=blocked", 3, 3},
		{"paginated", "/v1/audit?limit=2&offset=1", 2, 6},
		{"time range", "/v1/audit?start=2026-03-01T12:02:00Z&end=2026-03-01T12:04:00Z", 3, 3},
		{"descending", "/v1/audit?order=desc&limit=1", 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getAudit(h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			resp := decodeAuditList(t, rec)
			if resp.Count != tt.count || resp.Total != tt.total {
				t.Errorf("count/total = %d/%d, want %d/%d", resp.Count, resp.Total, tt.count, tt.total)
			}
		})
	}
}

func TestAuditQueryDescendingOrder(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	resp := decodeAuditList(t, getAudit(h, "/v1/audit?order=desc"))
	if resp.Records[0].ID != "rec-5" {
		t.Errorf("first record = %s, want rec-5", resp.Records[0].ID)
	}
}

func TestAuditQueryBadParams(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	for _, path := range []string{
		"/v1/audit?start=yesterday",
		"/v1/audit?end=03-01-2026",
		"/v1/audit?limit=-1",
		"/v1/audit?limit=many",
		"/v1/audit?offset=-2",
	} {
		rec := getAudit(h, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestAuditStats(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	rec := getAudit(h, "/v1/audit/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stats audit.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if stats.Total != 6 || stats.Approved != 3 || stats.Blocked != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ApprovalRate != 0.5 || stats.MeanRiskScore != 12.5 {
		t.Errorf("rates = %v/%v", stats.ApprovalRate, stats.MeanRiskScore)
	}
}

func TestAuditStatsIgnoresPagination(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	var stats audit.Stats
	rec := getAudit(h, "/v1/audit/stats?limit=1")
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if stats.Total != 6 {
		t.Errorf("Total = %d, pagination should not affect stats", stats.Total)
	}
}

func TestAuditUnknownResource(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	rec := getAudit(h, "/v1/audit/export")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAuditMethodNotAllowed(t *testing.T) {
	h := NewAuditHandler(seededAuditStorage(t))

	req := httptest.NewRequest(http.MethodDelete, "/v1/audit", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
