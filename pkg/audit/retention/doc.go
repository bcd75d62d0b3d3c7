// Package retention enforces the audit retention window.
//
// Records older than the configured number of days are deleted, optionally
// after being archived to a JSON file. Pruning is the one sanctioned
// deletion of audit history: it never runs on the decision path, only from
// the cron scheduler or an explicit administrative call, and every run
// logs the deleted count.
package retention
