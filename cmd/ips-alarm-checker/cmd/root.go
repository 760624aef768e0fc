package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/checker"
	"github.com/magnetlab/ips-alarm-monitor/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// snapshotFile path where the monitor persists decoded snapshots.
	snapshotFile string
	// maxSnapshotAge is the threshold after which the snapshot counts as stale.
	maxSnapshotAge time.Duration
	// once runs a single check and exits with the health as the status code.
	once bool

	// rootCmd represents the base command for watching the monitor daemon.
	rootCmd = &cobra.Command{
		Use:   "ips-alarm-checker",
		Short: "Watch the alarm monitor process and snapshot freshness.",
		Long: `Background watchdog for the alarm monitor daemon.

Polls at fixed 5-second intervals and verifies that the ips-alarm-monitor
process is running and that the persisted snapshot keeps getting refreshed.
A snapshot older than the staleness threshold means the monitor lost its
feed or died; the finding is logged so the station operator can react.

With --once a single check is performed and a failed check is returned as
a non-zero exit code, which suits cron jobs and health probes.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			checkerOptions := &checker.Options{
				ConfigPath:     configPath,
				SnapshotFile:   snapshotFile,
				MaxSnapshotAge: maxSnapshotAge,
				Once:           once,
			}

			return checker.Run(ctx, checkerOptions)
		},
	}
)

// Execute runs the ips-alarm-checker CLI and exits with non-zero status on error.
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
		StringVarP(&snapshotFile, "snapshot-file", "s", "", "path to the snapshot file (defaults to config)")
	rootCmd.Flags().
		DurationVarP(&maxSnapshotAge, "max-age", "a", checker.DefaultMaxSnapshotAge, "snapshot staleness threshold")
	rootCmd.Flags().BoolVarP(&once, "once", "o", false, "run a single check and exit")
}
