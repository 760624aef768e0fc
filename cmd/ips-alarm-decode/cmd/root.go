package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/decode"
	"github.com/magnetlab/ips-alarm-monitor/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// asJSON switches the output to a JSON snapshot.
	asJSON bool

	// rootCmd represents the base command for decoding a single alarm line.
	rootCmd = &cobra.Command{
		Use:   "ips-alarm-decode [alarm-line]",
		Short: "Decode one raw alarm line and print per-board fault masks.",
		Long: `Decodes a single semicolon-separated alarm line into per-board fault
bitmasks and prints them, one board per row, without touching the broker.

The line can be provided as an argument or piped on standard input. Decode
findings (malformed records, unknown boards, unknown statuses) are printed
as warnings and do not fail the command. When the configuration file is
missing, the stock controller wiring is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use line argument if provided, otherwise read standard input.
			var line string
			if len(args) > 0 {
				line = args[0]
			}

			options := &decode.Options{
				ConfigPath: configPath,
				Line:       line,
				AsJSON:     asJSON,
			}

			return decode.Run(ctx, options)
		},
	}
)

// Execute runs the ips-alarm-decode CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print the snapshot as JSON")
}
