package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sentra-labs/sentra/pkg/cli"
	"sentra-labs/sentra/pkg/policy/export"
)

var exportFlags struct {
	docType     string
	format      string
	output      string
	packageName string
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export compiled rules from a policy document",
	Long: `Compile a policy document and export the resulting rule set.

Formats:
  json    - interchange document with the full rule data
  module  - generated Go source with one validation function per rule

Examples:
  # Export the interchange JSON
  sentra export policy.txt --format json -o rules.json

  # Generate a validation module
  sentra export policy.txt --format module --package policyrules -o rules.go`,
	Args: cobra.ExactArgs(1),
	RunE: exportPolicy,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.docType, "type", "text", "declared document type: text, pdf, excel")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "json", "export format: json, module")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFlags.packageName, "package", "policyrules", "package name for generated module")
}

func exportPolicy(cmd *cobra.Command, args []string) error {
	set, err := compileDocument(args[0], exportFlags.docType)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	out := os.Stdout
	if exportFlags.output != "" {
		out, err = os.Create(exportFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	switch exportFlags.format {
	case "json":
		return export.WriteInterchange(out, set, true)
	case "module":
		return export.WriteModule(out, set, exportFlags.packageName)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, module)", exportFlags.format)
	}
}
