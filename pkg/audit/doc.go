// Package audit defines the decision history model: immutable, append-only
// records of every governance decision, the storage contract for persisting
// them, and aggregate statistics over a queried range.
//
// An AuditRecord is written exactly once, when a decision is made, and is
// never mutated or deleted on the decision path. Retention pruning is a
// separate, explicitly configured administrative operation (see
// audit/retention).
//
// Record order matches decision-call order: appends funnel through a
// single-writer queue (see audit/recorder) and storage backends preserve
// insertion order.
package audit
