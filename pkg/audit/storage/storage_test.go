package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/policy"
)

// backends returns one constructor per storage implementation so every
// contract test runs against both.
func backends(t *testing.T) map[string]func(t *testing.T) audit.Storage {
	return map[string]func(t *testing.T) audit.Storage{
		"memory": func(t *testing.T) audit.Storage {
			return NewMemoryStorage()
		},
		"sqlite": func(t *testing.T) audit.Storage {
			config := DefaultSQLiteConfig()
			config.Path = filepath.Join(t.TempDir(), "audit.db")
			s, err := NewSQLiteStorage(config)
			if err != nil {
				t.Fatalf("NewSQLiteStorage() error = %v", err)
			}
			return s
		},
	}
}

func testRecord(i int, userID, status string) *audit.AuditRecord {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return &audit.AuditRecord{
		ID:            uuid.New().String(),
		RequestID:     fmt.Sprintf("req-%03d", i),
		UserID:        userID,
		Action:        "transfer",
		Context:       policy.ExecutionContext{"amount": float64(1000 * i)},
		Status:        status,
		RiskScore:     float64(i),
		Violations:    []string{},
		FailedRuleIDs: []string{},
		RuleSetID:     "rs-1",
		RulesChecked:  3,
		DecidedAt:     now,
		RecordedAt:    now,
	}
}

func seed(t *testing.T, s audit.Storage, n int) []*audit.AuditRecord {
	t.Helper()

	records := make([]*audit.AuditRecord, 0, n)
	for i := 0; i < n; i++ {
		status := audit.StatusApproved
		if i%3 == 0 {
			status = audit.StatusBlocked
		}
		user := "alice"
		if i%2 == 1 {
			user = "bob"
		}
		r := testRecord(i, user, status)
		if err := s.Append(context.Background(), r); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
		records = append(records, r)
	}
	return records
}

func TestStorageAppendAndQueryOrder(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()

			seeded := seed(t, s, 5)

			got, err := s.Query(context.Background(), nil)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != 5 {
				t.Fatalf("got %d records, want 5", len(got))
			}
			for i, r := range got {
				if r.RequestID != seeded[i].RequestID {
					t.Errorf("record %d is %s, want %s", i, r.RequestID, seeded[i].RequestID)
				}
			}
		})
	}
}

func TestStorageQueryDescending(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()
			seed(t, s, 4)

			got, err := s.Query(context.Background(), &audit.Query{SortOrder: "desc"})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if got[0].RequestID != "req-003" || got[3].RequestID != "req-000" {
				t.Errorf("desc order wrong: first=%s last=%s", got[0].RequestID, got[3].RequestID)
			}
		})
	}
}

func TestStorageFilters(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 2, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 12, 4, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query *audit.Query
		want  int
	}{
		{"by user", &audit.Query{UserID: "alice"}, 3},
		{"by status", &audit.Query{Status: audit.StatusBlocked}, 2},
		{"by action", &audit.Query{Action: "transfer"}, 6},
		{"no matching action", &audit.Query{Action: "login"}, 0},
		{"time range inclusive", &audit.Query{StartTime: &start, EndTime: &end}, 3},
		{"conjunctive", &audit.Query{UserID: "alice", Status: audit.StatusBlocked}, 1},
	}

	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()
			seed(t, s, 6)

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := s.Query(context.Background(), tt.query)
					if err != nil {
						t.Fatalf("Query() error = %v", err)
					}
					if len(got) != tt.want {
						t.Errorf("got %d records, want %d", len(got), tt.want)
					}

					count, err := s.Count(context.Background(), tt.query)
					if err != nil {
						t.Fatalf("Count() error = %v", err)
					}
					if count != int64(tt.want) {
						t.Errorf("Count = %d, want %d", count, tt.want)
					}
				})
			}
		})
	}
}

func TestStoragePagination(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()
			seed(t, s, 10)
			ctx := context.Background()

			page, err := s.Query(ctx, &audit.Query{Limit: 3, Offset: 4})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(page) != 3 {
				t.Fatalf("got %d records, want 3", len(page))
			}
			if page[0].RequestID != "req-004" {
				t.Errorf("page starts at %s, want req-004", page[0].RequestID)
			}

			past, err := s.Query(ctx, &audit.Query{Offset: 50})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(past) != 0 {
				t.Errorf("offset past the end should return empty, got %d", len(past))
			}
		})
	}
}

func TestStorageDelete(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()
			seed(t, s, 6)
			ctx := context.Background()

			deleted, err := s.Delete(ctx, &audit.Query{Status: audit.StatusBlocked})
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if deleted != 2 {
				t.Errorf("deleted %d, want 2", deleted)
			}

			remaining, err := s.Count(ctx, nil)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if remaining != 4 {
				t.Errorf("remaining = %d, want 4", remaining)
			}
		})
	}
}

func TestStorageAppendNilRecord(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			defer s.Close()

			if err := s.Append(context.Background(), nil); err == nil {
				t.Error("Append(nil) should fail")
			}
		})
	}
}

func TestSQLiteRoundtripPreservesFields(t *testing.T) {
	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "audit.db")
	s, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	record := testRecord(1, "alice", audit.StatusBlocked)
	record.Violations = []string{"encryption required but not enabled", "missing approval: manager_approval"}
	record.FailedRuleIDs = []string{"rule-a", "rule-b"}
	record.RiskScore = 15

	if err := s.Append(ctx, record); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.Query(ctx, nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}

	r := got[0]
	if r.ID != record.ID || r.RequestID != record.RequestID || r.UserID != "alice" {
		t.Errorf("identity fields lost: %+v", r)
	}
	if r.Status != audit.StatusBlocked || r.RiskScore != 15 || r.RulesChecked != 3 {
		t.Errorf("decision fields lost: %+v", r)
	}
	if len(r.Violations) != 2 || r.Violations[0] != "encryption required but not enabled" {
		t.Errorf("Violations = %v", r.Violations)
	}
	if len(r.FailedRuleIDs) != 2 {
		t.Errorf("FailedRuleIDs = %v", r.FailedRuleIDs)
	}
	if r.Context.Number("amount") != 1000 {
		t.Errorf("Context = %v", r.Context)
	}
	if !r.DecidedAt.Equal(record.DecidedAt) {
		t.Errorf("DecidedAt = %v, want %v", r.DecidedAt, record.DecidedAt)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	config := DefaultSQLiteConfig()
	config.Path = path
	s, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	seed(t, s, 3)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count after reopen = %d, want 3", count)
	}
}
