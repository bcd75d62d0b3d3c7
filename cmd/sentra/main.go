// Sentra is a compliance governance service: it turns policy documents
// into executable validation rules and gates agent actions against them.
//
// It provides:
//   - Policy document ingestion: text in, compiled rule set out
//   - Governance decisions: approve or block action requests with risk scoring
//   - An append-only audit trail of every decision
//   - Rule set export as interchange JSON or a generated Go validation module
//
// Usage:
//
//	# Start the service with default configuration
//	sentra run
//
//	# Start with a custom configuration file
//	sentra run --config /path/to/config.yaml
//
//	# Compile a policy document locally and print the rule summary
//	sentra compile policy.txt
//
//	# Export the compiled rules from a document as a Go module
//	sentra export policy.txt --format module -o rules.go
//
//	# Query the audit database
//	sentra audit query --status blocked --limit 20
package main

func main() {
	Execute()
}
