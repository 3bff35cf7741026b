package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/collector"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/provider"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/rackspace"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/server"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/sink"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	// DefaultShutdownTimeout is the maximum time to wait for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Prometheus exporter",
		Long:  "Collects metrics every refresh interval and serves them on /metrics until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	// Load configuration first (need log level from config)
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := newLogger(cfg)
	log.Info("Rackspace exporter starting",
		"version", version.Version,
		"config_path", configPath)

	log.Info("Configuration loaded successfully",
		"identity_url", cfg.ResolvedIdentityURL(),
		"families", len(cfg.EnabledFamilies()),
		"refresh_interval_seconds", cfg.RefreshInterval,
		"http_port", cfg.HTTPPort,
		"max_concurrency", cfg.MaxConcurrency,
		"api_timeout_seconds", cfg.APITimeout)

	monitor := rackspace.NewMonitor(cfg.MonitorOptions(), log)

	var extraSink provider.Sink
	if cfg.PrintMetrics {
		extraSink = sink.NewWriter(cmd.OutOrStdout())
	}

	log.Info("Creating Prometheus collector")
	metricsCollector := collector.NewMetricsCollector(monitor,
		time.Duration(cfg.RefreshInterval)*time.Second, extraSink, log)

	if err := prometheus.Register(metricsCollector); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log.Info("Starting background metric refresh")
	metricsCollector.StartBackgroundRefresh(ctx)

	srv := server.NewServer(cfg, metricsCollector, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("Received shutdown signal, starting graceful shutdown", "signal", sig.String())

		// Cancel background refresh
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}

		log.Info("Server stopped gracefully")
	}
	return nil
}
