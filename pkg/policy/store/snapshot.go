package store

import (
	"sync/atomic"
	"time"

	"sentra-labs/sentra/pkg/policy/compiler"
)

// snapshot bundles the compiled set with its publish time so both swap
// together.
type snapshot struct {
	compiled    *compiler.CompiledRuleSet
	publishedAt time.Time
}

// SnapshotStore holds the active compiled rule set. Reads are lock-free;
// Publish atomically replaces the whole snapshot.
type SnapshotStore struct {
	current atomic.Pointer[snapshot]
}

// NewSnapshotStore creates a store with no active rule set. Decisions made
// before the first Publish fail closed.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish makes the compiled set the active snapshot. Callers already
// holding the previous snapshot keep evaluating against it.
func (s *SnapshotStore) Publish(compiled *compiler.CompiledRuleSet) {
	s.current.Store(&snapshot{
		compiled:    compiled,
		publishedAt: time.Now(),
	})
}

// Active returns the current compiled rule set, or false when none has
// been published.
func (s *SnapshotStore) Active() (*compiler.CompiledRuleSet, bool) {
	snap := s.current.Load()
	if snap == nil || snap.compiled == nil {
		return nil, false
	}
	return snap.compiled, true
}

// ActiveID returns the id of the active rule set, or "" when none is
// published.
func (s *SnapshotStore) ActiveID() string {
	snap := s.current.Load()
	if snap == nil || snap.compiled == nil {
		return ""
	}
	return snap.compiled.Set.ID
}

// RuleCount returns the number of rules in the active set, 0 when none.
func (s *SnapshotStore) RuleCount() int {
	snap := s.current.Load()
	if snap == nil || snap.compiled == nil {
		return 0
	}
	return len(snap.compiled.Rules)
}

// PublishedAt returns when the active set was published; zero when none.
func (s *SnapshotStore) PublishedAt() time.Time {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.publishedAt
}
