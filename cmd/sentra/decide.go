package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sentra-labs/sentra/pkg/cli"
	"sentra-labs/sentra/pkg/governance"
	"sentra-labs/sentra/pkg/policy/compiler"
	"sentra-labs/sentra/pkg/policy/store"
)

var decideFlags struct {
	docType string
	user    string
	action  string
	params  []string
	format  string
}

var decideCmd = &cobra.Command{
	Use:   "decide <policy-file>",
	Short: "Evaluate one action request against a policy document",
	Long: `Compile a policy document and evaluate a single action request
against it, without starting the server or touching the audit trail.

Parameters are key=value pairs; values parse as JSON when possible, so
numbers and booleans keep their types.

Examples:
  # Check a transfer against the policy
  sentra decide policy.txt --user alice --action transfer \
      --param amount=50000 --param approval_obtained=false

  # JSON decision output
  sentra decide policy.txt --user alice --action export_data \
      --param involves_pii=true --format json`,
	Args: cobra.ExactArgs(1),
	RunE: decideAction,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVar(&decideFlags.docType, "type", "text", "declared document type: text, pdf, excel")
	decideCmd.Flags().StringVar(&decideFlags.user, "user", "", "user ID making the request (required)")
	decideCmd.Flags().StringVar(&decideFlags.action, "action", "", "action being requested (required)")
	decideCmd.Flags().StringArrayVar(&decideFlags.params, "param", nil, "request parameter as key=value (repeatable)")
	decideCmd.Flags().StringVar(&decideFlags.format, "format", "text", "output format: text, json")
	_ = decideCmd.MarkFlagRequired("user")
	_ = decideCmd.MarkFlagRequired("action")
}

func decideAction(cmd *cobra.Command, args []string) error {
	set, err := compileDocument(args[0], decideFlags.docType)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	compiled, err := compiler.Compile(set)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	parameters, err := parseParams(decideFlags.params)
	if err != nil {
		return err
	}

	snapshots := store.NewSnapshotStore()
	snapshots.Publish(compiled)
	enforcer := governance.NewEnforcer(snapshots, nil, nil, nil)

	decision, err := enforcer.Decide(context.Background(), decideFlags.user, decideFlags.action, parameters)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	if cli.OutputFormat(decideFlags.format) == cli.FormatJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(decision)
	}

	fmt.Printf("Decision: %s\n", decision.Status)
	fmt.Printf("Risk Score: %.1f\n", decision.RiskScore)
	fmt.Printf("Rules Checked: %d\n", decision.RulesChecked)
	if len(decision.FailedRuleIDs) > 0 {
		fmt.Printf("Failed Rules: %s\n", strings.Join(decision.FailedRuleIDs, ", "))
	}
	for _, v := range decision.Violations {
		fmt.Printf("  - %s\n", v)
	}
	for _, w := range decision.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	if decision.Blocked() {
		os.Exit(1)
	}
	return nil
}

// parseParams turns key=value flags into request parameters. Values that
// parse as JSON keep their JSON type; everything else stays a string.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value)", pair)
		}

		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			params[key] = parsed
		} else {
			params[key] = value
		}
	}
	return params, nil
}
