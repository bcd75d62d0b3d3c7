package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/cli"
	"sentra-labs/sentra/pkg/config"
)

var auditFlags struct {
	backend   string
	timeRange string
	user      string
	action    string
	status    string
	limit     int
	offset    int
	order     string
	format    string
	output    string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the decision audit trail",
	Long: `Query and summarize the audit trail of governance decisions.

Subcommands:
  query   - Query audit records with filters
  stats   - Aggregate approval rate and risk statistics

Examples:
  # Last blocked decisions
  sentra audit query --status blocked --limit 20

  # Decisions for one user in a time range
  sentra audit query --user "user-123" --time-range "2026-08-01T00:00:00Z/2026-08-29T00:00:00Z"

  # Export to JSON file
  sentra audit query --format json --output audit.json`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-01T00:00:00Z/2026-08-29T00:00:00Z"`,
	RunE: queryAudit,
}

var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate decision statistics",
	Long:  `Compute approval rate and mean risk score over matching records.`,
	RunE:  auditStats,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditStatsCmd)

	for _, cmd := range []*cobra.Command{auditQueryCmd, auditStatsCmd} {
		cmd.Flags().StringVar(&auditFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")
		cmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
		cmd.Flags().StringVar(&auditFlags.user, "user", "", "filter by user ID")
		cmd.Flags().StringVar(&auditFlags.action, "action", "", "filter by action")
		cmd.Flags().StringVar(&auditFlags.status, "status", "", "filter by decision status (approved, blocked)")
	}

	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results")
	auditQueryCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditFlags.order, "order", "asc", "sort order: asc (decision order), desc")
	auditQueryCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
	auditQueryCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")
}

// openAuditStorage builds the storage backend from config plus the
// --backend override.
func openAuditStorage() (audit.Storage, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if auditFlags.backend != "" {
		cfg.Audit.Backend = auditFlags.backend
	}
	return buildAuditStorage(cfg)
}

// buildAuditQuery translates command flags into an audit query.
func buildAuditQuery() (*audit.Query, error) {
	query := &audit.Query{
		UserID:    auditFlags.user,
		Action:    auditFlags.action,
		Status:    auditFlags.status,
		Limit:     auditFlags.limit,
		Offset:    auditFlags.offset,
		SortOrder: auditFlags.order,
	}

	if auditFlags.timeRange != "" {
		parts := strings.Split(auditFlags.timeRange, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time range format (expected: start/end)")
		}

		startTime, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		query.StartTime = &startTime

		endTime, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		query.EndTime = &endTime
	}

	return query, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	store, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	query, err := buildAuditQuery()
	if err != nil {
		return err
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	output := os.Stdout
	if auditFlags.output != "" {
		output, err = os.Create(auditFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if cli.OutputFormat(auditFlags.format) == cli.FormatJSON {
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"total_records": len(records),
			"records":       records,
		})
	}
	return outputAuditText(output, records, query)
}

func outputAuditText(output *os.File, records []*audit.AuditRecord, query *audit.Query) error {
	if query.StartTime != nil && query.EndTime != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.StartTime.Format(time.RFC3339),
			query.EndTime.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n", len(records))
	fmt.Fprintln(output)

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Record ID: %s\n", record.ID)
		fmt.Fprintf(output, "Decided At: %s\n", record.DecidedAt.Format(time.RFC3339))
		fmt.Fprintf(output, "User: %s\n", record.UserID)
		fmt.Fprintf(output, "Action: %s\n", record.Action)
		fmt.Fprintf(output, "Status: %s\n", record.Status)
		fmt.Fprintf(output, "Risk Score: %.1f\n", record.RiskScore)
		fmt.Fprintf(output, "Rules Checked: %d\n", record.RulesChecked)
		if len(record.FailedRuleIDs) > 0 {
			fmt.Fprintf(output, "Failed Rules: %s\n", strings.Join(record.FailedRuleIDs, ", "))
		}
		for _, v := range record.Violations {
			fmt.Fprintf(output, "  - %s\n", v)
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			remaining := len(records) - 10
			fmt.Fprintln(output)
			fmt.Fprintf(output, "... and %d more records\n", remaining)
			fmt.Fprintf(output, "Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}

func auditStats(cmd *cobra.Command, args []string) error {
	store, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	query, err := buildAuditQuery()
	if err != nil {
		return err
	}
	query.Limit = 0
	query.Offset = 0

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}

	stats := audit.ComputeStats(records)

	fmt.Println("Audit Decision Report")
	fmt.Println("=====================")
	if query.StartTime != nil && query.EndTime != nil {
		fmt.Printf("Time Range: %s to %s\n",
			query.StartTime.Format("2006-01-02"),
			query.EndTime.Format("2006-01-02"))
	}
	fmt.Printf("Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Println()
	fmt.Printf("Total Decisions: %d\n", stats.Total)
	fmt.Printf("Approved: %d\n", stats.Approved)
	fmt.Printf("Blocked: %d\n", stats.Blocked)
	fmt.Printf("Approval Rate: %.1f%%\n", stats.ApprovalRate*100)
	fmt.Printf("Mean Risk Score: %.2f\n", stats.MeanRiskScore)

	return nil
}
