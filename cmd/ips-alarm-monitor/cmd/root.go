package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/monitor"
	"github.com/magnetlab/ips-alarm-monitor/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// snapshotFile path where the latest decoded snapshot is persisted.
	snapshotFile string

	// rootCmd represents the base command for running the monitor daemon.
	rootCmd = &cobra.Command{
		Use:   "ips-alarm-monitor",
		Short: "Decode power supply alarm lines and publish per-board fault masks.",
		Long: `Background daemon that subscribes to the raw alarm line topic, decodes
every received line into per-board fault bitmasks and publishes the result.

Each decoded cycle is published per board as a retained MQTT message, persisted
to a JSON snapshot file and optionally recorded in InfluxDB. Malformed records,
unknown boards and unknown statuses are reported as warnings and never stop
the decode. Board wiring and status catalogs come from the configuration file;
with no boards configured the stock controller wiring is used.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath:   configPath,
				SnapshotFile: snapshotFile,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the ips-alarm-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&snapshotFile, "snapshot-file", "s", config.DefaultSnapshotFilename, "path to persist decoded snapshots")
}
