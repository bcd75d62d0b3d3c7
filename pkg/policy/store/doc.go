// Package store manages rule set lifecycle around the evaluation pipeline.
//
// Three pieces:
//
//   - SnapshotStore holds the currently active compiled rule set behind an
//     atomically swapped reference. Concurrent decisions read the snapshot
//     without locking; publishing a recompiled set replaces the reference
//     in one step, so an in-flight validation sees either the entirely old
//     or entirely new set, never a mix.
//   - Archive persists every published rule set to SQLite so export by
//     rule_set_id keeps working across restarts.
//   - DocumentWatcher watches a policy documents directory and triggers a
//     reparse-and-republish callback on change, debounced to absorb editor
//     write storms.
package store
