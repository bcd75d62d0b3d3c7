package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/audit/recorder"
	"sentra-labs/sentra/pkg/audit/retention"
	"sentra-labs/sentra/pkg/audit/storage"
	"sentra-labs/sentra/pkg/cli"
	"sentra-labs/sentra/pkg/config"
	"sentra-labs/sentra/pkg/extract"
	"sentra-labs/sentra/pkg/governance"
	"sentra-labs/sentra/pkg/policy/manager"
	"sentra-labs/sentra/pkg/policy/parser"
	"sentra-labs/sentra/pkg/policy/store"
	"sentra-labs/sentra/pkg/server"
	"sentra-labs/sentra/pkg/telemetry/logging"
	"sentra-labs/sentra/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	documentsDir  string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Sentra governance server",
	Long: `Start the Sentra governance server with the specified configuration.

The server loads policy documents from the configured directory (when set),
publishes the compiled rule set, and serves the governance API: policy
upload, decision evaluation, rule set export, and audit queries.

Examples:
  # Start with default config
  sentra run

  # Start with custom config
  sentra run --config /etc/sentra/config.yaml

  # Override listen address
  sentra run --listen 0.0.0.0:8080

  # Validate config without starting server
  sentra run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.documentsDir, "documents", "", "override policy documents directory")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.documentsDir != "" {
		cfg.Policy.DocumentsDir = runFlags.documentsDir
	}

	logging.Initialize(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Sentra v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Audit trail
	auditStorage, err := buildAuditStorage(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer auditStorage.Close()

	recorderConfig := &recorder.Config{
		AsyncBuffer:  cfg.Audit.AsyncBuffer,
		WriteTimeout: cfg.Audit.WriteTimeout,
	}
	if collector != nil {
		recorderConfig.Observer = collector.ObserveAuditAppend
	}
	auditRecorder := recorder.NewRecorder(auditStorage, recorderConfig)
	defer auditRecorder.Close()
	fmt.Printf("✓ Audit trail initialized (%s backend)\n", cfg.Audit.Backend)

	// Retention scheduler
	if cfg.Audit.Retention.Schedule != "" && cfg.Audit.Retention.Days > 0 {
		retentionConfig := &retention.Config{
			RetentionDays:       cfg.Audit.Retention.Days,
			PruneSchedule:       cfg.Audit.Retention.Schedule,
			ArchiveBeforeDelete: cfg.Audit.Retention.ArchiveBeforeDelete,
			ArchivePath:         cfg.Audit.Retention.ArchivePath,
		}
		pruner := retention.NewPruner(auditStorage, retentionConfig)
		if err := pruner.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruner.Stop()
			if next := pruner.NextPruning(); next != nil {
				slog.Debug("audit retention scheduler started", "next_pruning", next)
			}
		}
	}

	// Rule set archive
	archive, err := store.NewArchive(store.ArchiveConfig{DBPath: cfg.RuleSets.ArchivePath})
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to open rule set archive: %w", err))
	}
	defer archive.Close()

	// Policy pipeline
	snapshots := store.NewSnapshotStore()
	extractor := extract.New(&extract.Config{MaxBytes: cfg.Policy.MaxDocumentBytes})
	policyManager := manager.New(
		extractor,
		parser.New(nil),
		snapshots,
		archive,
		collector,
		&manager.Config{ParseTimeout: cfg.Policy.ParseTimeout},
	)

	enforcer := governance.NewEnforcer(snapshots, auditRecorder, collector,
		&governance.Config{BlockingThreshold: cfg.Policy.BlockingThreshold})

	// Initial policy load
	if cfg.Policy.DocumentsDir != "" {
		if _, err := os.Stat(cfg.Policy.DocumentsDir); err == nil {
			result, err := policyManager.UploadDirectory(ctx, cfg.Policy.DocumentsDir)
			switch {
			case err != nil:
				slog.Warn("initial policy load failed", "error", err)
			case result.RuleSetID == "":
				slog.Warn("no rules published at startup", "diagnostic", result.Diagnostic)
			default:
				fmt.Printf("✓ Policy loaded (%d rules, %d clauses skipped)\n",
					result.RulesExtracted, result.Skipped)
			}
		} else {
			slog.Warn("policy documents directory not found",
				"path", cfg.Policy.DocumentsDir,
			)
		}
	}

	// Document watcher
	if cfg.Policy.Watch && cfg.Policy.DocumentsDir != "" {
		watcherConfig := store.DefaultDocumentWatcherConfig()
		watcherConfig.Path = cfg.Policy.DocumentsDir
		watcher, err := store.NewDocumentWatcher(watcherConfig, nil)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to create document watcher: %w", err))
		}
		go func() {
			err := watcher.Watch(ctx, func(path string) error {
				_, err := policyManager.UploadDirectory(ctx, cfg.Policy.DocumentsDir)
				return err
			})
			if err != nil {
				slog.Error("document watcher exited", "error", err)
			}
		}()
		fmt.Printf("✓ Watching %s for policy changes\n", cfg.Policy.DocumentsDir)
	}

	// HTTP server
	srv := server.New(&cfg.Server, server.Options{
		Uploader:     policyManager,
		Decider:      enforcer,
		Snapshots:    snapshots,
		Archive:      archive,
		AuditStorage: auditStorage,
		Metrics:      collector,
		MetricsCfg:   &cfg.Telemetry.Metrics,
		MaxDocBytes:  cfg.Policy.MaxDocumentBytes,
	})

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until signal, context cancellation, or server error.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Println("✓ Server stopped")
	return nil
}

// buildAuditStorage constructs the configured audit backend.
func buildAuditStorage(cfg *config.Config) (audit.Storage, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		sqliteConfig := &storage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		}
		s, err := storage.NewSQLiteStorage(sqliteConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite audit storage: %w", err)
		}
		return s, nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s (supported: sqlite, memory)", cfg.Audit.Backend)
	}
}
