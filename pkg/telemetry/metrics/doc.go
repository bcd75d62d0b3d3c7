// Package metrics exposes Prometheus metrics for the governance pipeline.
//
// The collector owns a private registry and registers:
//
//   - decisions_total{status}: governance decisions by outcome
//   - decision_risk_score: histogram of decision risk scores
//   - decision_duration_seconds: histogram of end-to-end decision latency
//   - rules_extracted_total: rules produced by policy uploads
//   - clauses_skipped_total: unclassifiable clauses skipped during parsing
//   - audit_append_duration_seconds: audit storage write latency
//   - active_ruleset_rules: gauge of rules in the active rule set
//
// When Enabled is false every record method is a no-op, so callers never
// guard their instrumentation.
package metrics
