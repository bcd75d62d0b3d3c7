// Package export renders rule sets for external consumers.
//
// Two artifacts come from the same immutable rule data:
//
//   - the interchange document: an ordered JSON list of rule objects with
//     every field spelled out, and
//   - a generated evaluator module: Go source with one routine per rule,
//     named validate_<rule_id>, each a pure function from context to
//     {rule_id, passed, violations}.
//
// The generated module carries the rule data as an embedded JSON blob and
// routes every routine through the shared constraint evaluator, so export
// is strictly a serialization step with no templated logic.
//
// Constraint kind tags and field names are a compatibility surface for
// downstream consumers of both artifacts; renaming or reordering them is a
// breaking change.
package export
