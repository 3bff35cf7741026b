package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/config"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/logger"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/version"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "rackspace-exporter",
		Short: "Collects Rackspace Cloud resource metrics",
		Long: `Collects status, size and usage metrics for Rackspace Cloud servers, Cloud Files,
Cloud Databases and Cloud Load Balancers. Without a subcommand it runs the
Prometheus exporter (same as "serve").

Settings come from the config file and RACKSPACE_* environment variables. If the
default config file does not exist, only the environment is used.`,
		Version:      version.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath,
		`path to the YAML configuration file ("" to use environment variables only)`)

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newCollectCmd(&configPath),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads the config file, or the environment alone when the path is
// empty or the default file is absent
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}
