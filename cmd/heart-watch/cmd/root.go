package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vportnov/heart-monitor/internal/config"
	"github.com/vportnov/heart-monitor/internal/logger"
	"github.com/vportnov/heart-monitor/internal/service/watch"
	"github.com/vportnov/heart-monitor/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel sets the minimum log level for the process.
	logLevel string

	// rootCmd represents the base command watching the monitor topics.
	rootCmd = &cobra.Command{
		Use:   "heart-watch [broker-url]",
		Short: "Watch the monitor's telemetry topics and log readings.",
		Long: `Companion tool that subscribes to the HeartBeat and HeartAtack topics
under the configured account and logs every reading the monitor publishes.
Alarm readings are logged at warn level so they stand out.

The broker URL can be provided as argument or loaded from configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use broker URL argument if provided, otherwise rely on config.
			var brokerURL string
			if len(args) > 0 {
				brokerURL = args[0]
			}

			return watch.Run(ctx, &watch.Options{
				ConfigPath: configPath,
				BrokerURL:  brokerURL,
			})
		},
	}
)

// Execute runs the heart-watch CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level (debug, info, warn, error)")
}
