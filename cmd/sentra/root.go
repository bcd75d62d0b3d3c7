package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentra",
	Short: "Sentra - compliance policy governance engine",
	Long: `Sentra is a compliance governance engine that converts natural-language
policy documents into executable validation rules and enforces them on
agent action requests.

It provides:
  - Policy parsing: compliance clauses become structured, typed rules
  - Governance decisions: approve or block requests with risk scoring
  - An append-only audit trail of every decision
  - Rule set export as interchange JSON or a generated validation module`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
