package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/finpulse/internal/config"
	"github.com/iwvelando/finpulse/internal/jitter"
	"github.com/iwvelando/finpulse/internal/scheduler"
	"github.com/iwvelando/finpulse/internal/server"
	"github.com/iwvelando/finpulse/internal/simulate"
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/internal/telemetry"
	"github.com/iwvelando/finpulse/pkg/constants"
)

type serveOptions struct {
	configPath       string
	serverConfigPath string
	logLevel         string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live dashboard snapshots over HTTP",
		Long: `Start the scheduler from the seed snapshot, run the initial analysis and
serve snapshots, manual refreshes, the snapshot stream and Prometheus
metrics until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&opts.serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

// mergeLogging lets the server config override the simulator's logging
// settings field by field.
func mergeLogging(base, override config.LoggingConfig) config.LoggingConfig {
	if override.Level != "" {
		base.Level = override.Level
	}
	if override.Format != "" {
		base.Format = override.Format
	}
	if override.OutputFile != "" {
		base.OutputFile = override.OutputFile
	}
	return base
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}
	serverConf, err := server.LoadConfig(opts.serverConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", opts.serverConfigPath, err)
	}

	logger, err := initializeLogger(mergeLogging(conf.Logging, serverConf.Logging), opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.serve"),
		)
	}

	profile, err := conf.Profile()
	if err != nil {
		return fmt.Errorf("invalid variation profile: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewCollector(registry)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initial := snapshot.Seed()
	metrics.Observe(initial)

	engine := simulate.NewEngine(jitter.NewSource(conf.Simulator.Seed), profile, nil)
	sched := scheduler.Start(ctx, engine, initial,
		scheduler.WithInterval(conf.Simulator.Interval),
		scheduler.WithLatency(conf.Simulator.Latency),
		scheduler.WithLogger(logger),
		scheduler.WithObserver(metrics),
	)
	unsubscribe := sched.Subscribe(metrics.Observe)
	defer unsubscribe()

	// Initial analysis so the first published snapshot does not wait a full interval.
	sched.RequestRefresh()

	httpServer := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, sched, serverConf, version, server.WithMetrics(metrics, registry)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", serverConf.Address),
			zap.String("op", "main.serve"),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main.serve"),
		)
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
	}

	sched.Dispose()
	<-sched.Done()
	return runErr
}
