package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/packager"
	upd "github.com/magnetlab/ips-alarm-monitor/internal/service/updater"
)

// TestPackager_WritesManifest generates a minimal manifest with placeholder files and verifies it exists.
func TestPackager_WritesManifest(t *testing.T) {
	// Setup test directory and change working directory.
	dir := t.TempDir()
	prev, _ := os.Getwd() //nolint:errcheck // Test code needs simple os.Getwd for directory change.

	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})

	// Create placeholder files expected by packager.
	for _, name := range upd.FilesWithChecksum() {
		f, err := os.Create(name)
		require.NoError(t, err)

		_ = f.Close()
	}

	// Run packager with timeout context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	options := &packager.Options{
		// Ensure the settings file is one of checksummed files.
		ConfigPath:   config.DefaultConfigFilename,
		BrokerURL:    "tcp://127.0.0.1:1883",
		UpdateFolder: "http://localhost/updates",
	}

	err := packager.Run(ctx, options)
	require.NoError(t, err)

	// Verify version manifest file was created.
	_, err = os.Stat(upd.VersionFilename)
	require.NoError(t, err)
}
