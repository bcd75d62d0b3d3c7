package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"sentra-labs/sentra/pkg/audit"
	"sentra-labs/sentra/pkg/config"
	"sentra-labs/sentra/pkg/policy/store"
	"sentra-labs/sentra/pkg/server/handlers"
	"sentra-labs/sentra/pkg/server/middleware"
	"sentra-labs/sentra/pkg/telemetry/metrics"
)

// Server is the HTTP API server for policy upload, decision evaluation,
// rule set export, and audit queries.
type Server struct {
	config       *config.ServerConfig
	uploader     handlers.PolicyUploader
	decider      handlers.Decider
	snapshots    *store.SnapshotStore
	archive      *store.Archive
	auditStorage audit.Storage
	metrics      *metrics.Collector
	metricsCfg   *config.MetricsConfig
	maxDocBytes  int64

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options collects the wired pipeline pieces the server exposes over
// HTTP. Archive, audit storage, and metrics may be nil; the matching
// endpoints then report unavailable.
type Options struct {
	Uploader     handlers.PolicyUploader
	Decider      handlers.Decider
	Snapshots    *store.SnapshotStore
	Archive      *store.Archive
	AuditStorage audit.Storage
	Metrics      *metrics.Collector
	MetricsCfg   *config.MetricsConfig
	MaxDocBytes  int64
}

// New creates a new API server.
func New(cfg *config.ServerConfig, opts Options) *Server {
	return &Server{
		config:       cfg,
		uploader:     opts.Uploader,
		decider:      opts.Decider,
		snapshots:    opts.Snapshots,
		archive:      opts.Archive,
		auditStorage: opts.AuditStorage,
		metrics:      opts.Metrics,
		metricsCfg:   opts.MetricsCfg,
		maxDocBytes:  opts.MaxDocBytes,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting governance server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server. In-flight decisions finish;
// the audit recorder is drained by the caller after Shutdown returns.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("governance server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/v1/policies", handlers.NewPolicyHandler(s.uploader, s.maxDocBytes))
	mux.Handle("/v1/decisions", handlers.NewDecisionHandler(s.decider))
	mux.Handle("/v1/rulesets", handlers.NewRuleSetHandler(s.snapshots, s.archive))
	mux.Handle("/v1/rulesets/", handlers.NewRuleSetHandler(s.snapshots, s.archive))
	if s.auditStorage != nil {
		mux.Handle("/v1/audit", handlers.NewAuditHandler(s.auditStorage))
		mux.Handle("/v1/audit/", handlers.NewAuditHandler(s.auditStorage))
	}
	mux.Handle("/healthz", handlers.NewHealthHandler(s.snapshots))

	if s.metrics != nil && s.metricsCfg != nil && s.metricsCfg.Enabled {
		mux.Handle(s.metricsCfg.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Used by tests to drive
// the API without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Stop requests shutdown from another goroutine.
func (s *Server) Stop() {
	close(s.shutdownChan)
}
