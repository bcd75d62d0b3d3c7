package storage

import (
	"context"
	"sync"

	"sentra-labs/sentra/pkg/audit"
)

// MemoryStorage is an in-memory audit backend. Appends go to the tail of a
// slice under a write lock, so iteration order is append order.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.AuditRecord
}

// NewMemoryStorage creates an empty in-memory audit backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make([]*audit.AuditRecord, 0, 64),
	}
}

// Append persists one record.
func (s *MemoryStorage) Append(ctx context.Context, record *audit.AuditRecord) error {
	if record == nil {
		return audit.NewStorageError("memory", "append", errNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Query retrieves records matching the filters in append order, or reverse
// append order when SortOrder is "desc".
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.AuditRecord, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.RLock()
	matched := make([]*audit.AuditRecord, 0)
	for _, r := range s.records {
		if matches(r, query) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	if query.SortOrder == "desc" {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	// Pagination after filtering and sorting
	if query.Offset > 0 {
		if query.Offset >= len(matched) {
			return []*audit.AuditRecord{}, nil
		}
		matched = matched[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}

	return matched, nil
}

// Count returns the number of records matching the filters.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, r := range s.records {
		if matches(r, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the filters and returns how many were
// removed.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*audit.AuditRecord, 0, len(s.records))
	var deleted int64
	for _, r := range s.records {
		if matches(r, query) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Close releases resources. No-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

// matches reports whether a record satisfies every filter in the query.
func matches(r *audit.AuditRecord, q *audit.Query) bool {
	if q.StartTime != nil && r.DecidedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.DecidedAt.After(*q.EndTime) {
		return false
	}
	if q.UserID != "" && r.UserID != q.UserID {
		return false
	}
	if q.Action != "" && r.Action != q.Action {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}
