package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sentra-labs/sentra/pkg/cli"
	"sentra-labs/sentra/pkg/extract"
	"sentra-labs/sentra/pkg/policy"
	"sentra-labs/sentra/pkg/policy/compiler"
	"sentra-labs/sentra/pkg/policy/export"
	"sentra-labs/sentra/pkg/policy/parser"
)

var compileFlags struct {
	docType string
	format  string
	output  string
}

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a policy document into rules",
	Long: `Compile a policy document locally and print the extracted rules.

The document goes through the same pipeline as an upload: extraction,
clause parsing, rule construction, and compilation. Nothing is published
or stored.

Examples:
  # Show the rule summary for a policy document
  sentra compile policy.txt

  # Emit the full rule set as JSON
  sentra compile policy.txt --format json -o rules.json`,
	Args: cobra.ExactArgs(1),
	RunE: compilePolicy,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileFlags.docType, "type", "text", "declared document type: text, pdf, excel")
	compileCmd.Flags().StringVar(&compileFlags.format, "format", "text", "output format: text, json")
	compileCmd.Flags().StringVarP(&compileFlags.output, "output", "o", "", "output file (default: stdout)")
}

// compileDocument runs the local extract-parse-compile pipeline over one
// file. Shared by the compile and export commands.
func compileDocument(path, docType string) (*policy.RuleSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := extract.New(nil).Extract(ctx, content, filepath.Base(path), extract.DeclaredType(docType))
	if err != nil {
		return nil, err
	}

	parsed, err := parser.New(nil).Parse(ctx, doc.Text, doc.Filename)
	if err != nil {
		return nil, err
	}

	set := policy.NewRuleSet(doc.Filename, parsed.Rules, parsed.Skipped)
	if _, err := compiler.Compile(set); err != nil {
		return nil, err
	}
	return set, nil
}

func compilePolicy(cmd *cobra.Command, args []string) error {
	set, err := compileDocument(args[0], compileFlags.docType)
	if err != nil {
		return cli.NewCommandError("compile", err)
	}

	out := os.Stdout
	if compileFlags.output != "" {
		out, err = os.Create(compileFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	if cli.OutputFormat(compileFlags.format) == cli.FormatJSON {
		return export.WriteInterchange(out, set, true)
	}

	fmt.Fprintf(out, "Rule set %s\n", set.ID)
	fmt.Fprintf(out, "Source: %s\n", set.Source)
	fmt.Fprintf(out, "Rules: %d (skipped clauses: %d, vacuous: %d)\n", len(set.Rules), set.Skipped, set.Vacuous)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "By category:")
	for category, count := range set.CountByCategory() {
		fmt.Fprintf(out, "  %s: %d\n", category, count)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "By level:")
	for level, count := range set.CountByLevel() {
		fmt.Fprintf(out, "  %s: %d\n", level, count)
	}
	fmt.Fprintln(out)

	for _, r := range set.Rules {
		fmt.Fprintf(out, "%s [%s/%s] %s\n", r.RuleID, r.Category, r.ComplianceLevel, truncateText(r.Description, 100))
		for _, c := range r.Constraints {
			fmt.Fprintf(out, "    %s\n", c.Kind)
		}
	}

	return nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
