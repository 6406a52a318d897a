package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vportnov/heart-monitor/internal/config"
	"github.com/vportnov/heart-monitor/internal/logger"
	"github.com/vportnov/heart-monitor/internal/service/monitor"
	"github.com/vportnov/heart-monitor/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel sets the minimum log level for the process.
	logLevel string

	// rootCmd represents the base command running the monitor loop.
	rootCmd = &cobra.Command{
		Use:   "heart-monitor [broker-url]",
		Short: "Poll the pulse sensor and raise the alarm over MQTT.",
		Long: `Daemon that polls a distance-style sensor as a beats-per-unit proxy,
publishes every reading to the HeartBeat topic, and engages a local
buzzer-and-lamp alarm when a reading exceeds the configured threshold.

While the alarm is engaged the peak reading is re-published to the
HeartAtack topic on a fixed 0.1s cadence; only the reset button returns
the monitor to normal polling. Without physical hardware the daemon runs
on simulated devices, and SIGHUP acts as the reset button.

The broker URL can be provided as argument or loaded from configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling. SIGHUP is reserved for
			// the simulated reset button.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use broker URL argument if provided, otherwise rely on config.
			var brokerURL string
			if len(args) > 0 {
				brokerURL = args[0]
			}

			return monitor.Run(ctx, &monitor.Options{
				ConfigPath: configPath,
				BrokerURL:  brokerURL,
			})
		},
	}
)

// Execute runs the heart-monitor CLI and exits with non-zero status on error.
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
