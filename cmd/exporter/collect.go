package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/rackspace"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/sink"
	"github.com/spf13/cobra"
)

func newCollectCmd(configPath *string) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection and print the metrics",
		Long: `Authenticates, collects every enabled family once and prints each metric as a
"name=<path>,value=<value>" line on stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitor := rackspace.NewMonitor(cfg.MonitorOptions(), log)
			summary, err := monitor.Collect(ctx, sink.NewWriter(cmd.OutOrStdout()))
			if err != nil {
				return fmt.Errorf("collection run failed: %w", err)
			}

			if strict {
				if err := summary.Err(); err != nil {
					return fmt.Errorf("%d family/region collections failed: %w", len(summary.Failures), err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any family/region collection failed")
	return cmd
}
