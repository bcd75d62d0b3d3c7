// Package server ties the governance pipeline together behind an HTTP
// API and manages the server lifecycle.
//
// # Endpoints
//
//   - POST /v1/policies: upload a policy document; publishes a rule set
//   - POST /v1/decisions: evaluate an action request
//   - GET /v1/rulesets: list published rule sets
//   - GET /v1/rulesets/{id}/export: export a set as JSON or a generated module
//   - GET /v1/audit: query decision history
//   - GET /v1/audit/stats: aggregate decision statistics
//   - GET /healthz: liveness plus active rule set status
//   - GET /metrics: Prometheus exposition (when enabled)
//
// The server handles graceful shutdown on SIGTERM/SIGINT: in-flight
// requests finish within the configured shutdown timeout before Start
// returns.
package server
