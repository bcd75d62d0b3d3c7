package store

import (
	"sync"
	"testing"

	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
)

func compiledSet(t *testing.T, ruleIDs ...string) *compiler.CompiledRuleSet {
	t.Helper()

	rules := make([]policy.Rule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, policy.Rule{
			RuleID:      id,
			Constraints: []policy.Constraint{{Kind: policy.ConstraintEncryptionRequired}},
		})
	}
	compiled, err := compiler.Compile(policy.NewRuleSet("test.txt", rules, 0))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return compiled
}

func TestSnapshotStoreEmpty(t *testing.T) {
	s := NewSnapshotStore()

	if _, ok := s.Active(); ok {
		t.Error("fresh store should have no active rule set")
	}
	if id := s.ActiveID(); id != "" {
		t.Errorf("ActiveID = %q, want empty", id)
	}
	if n := s.RuleCount(); n != 0 {
		t.Errorf("RuleCount = %d, want 0", n)
	}
	if !s.PublishedAt().IsZero() {
		t.Error("PublishedAt should be zero before any publish")
	}
}

func TestSnapshotStorePublishReplaces(t *testing.T) {
	s := NewSnapshotStore()

	first := compiledSet(t, "a")
	second := compiledSet(t, "b", "c")

	s.Publish(first)
	if s.ActiveID() != first.Set.ID {
		t.Errorf("ActiveID = %s, want %s", s.ActiveID(), first.Set.ID)
	}

	s.Publish(second)
	active, ok := s.Active()
	if !ok || active.Set.ID != second.Set.ID {
		t.Errorf("active = %v, want the second set", active)
	}
	if s.RuleCount() != 2 {
		t.Errorf("RuleCount = %d, want 2", s.RuleCount())
	}

	// The caller still holding the first snapshot keeps a usable set.
	if len(first.Rules) != 1 {
		t.Error("previous snapshot should be unaffected by republish")
	}
}

func TestSnapshotStoreConcurrentReadsDuringPublish(t *testing.T) {
	s := NewSnapshotStore()
	s.Publish(compiledSet(t, "seed"))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				compiled, ok := s.Active()
				if !ok {
					t.Error("active set disappeared during republish")
					return
				}
				// The snapshot must be internally consistent.
				if compiled.Set.ID == "" || len(compiled.Rules) != len(compiled.Set.Rules) {
					t.Error("read a torn snapshot")
					return
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		s.Publish(compiledSet(t, "r1", "r2"))
	}
	close(stop)
	wg.Wait()
}
