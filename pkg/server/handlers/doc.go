// Package handlers implements the HTTP handlers for the governance API:
// policy upload, decision evaluation, rule set listing and export, audit
// queries, and health checks. Handlers depend on small interfaces so
// tests can substitute the pipeline.
package handlers
