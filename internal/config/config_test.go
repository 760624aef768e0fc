package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing broker URL.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// QoS out of range.
	cfg = &Config{
		Broker: BrokerConfig{
			URL: "tcp://127.0.0.1:1883",
			QoS: 3,
		},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Board entry without identifier.
	cfg = &Config{
		Broker: BrokerConfig{URL: "tcp://127.0.0.1:1883"},
		Boards: []BoardConfig{
			{ID: "", Catalog: "temperature", Slot: 0},
		},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Board entry without catalog.
	cfg = &Config{
		Broker: BrokerConfig{URL: "tcp://127.0.0.1:1883"},
		Boards: []BoardConfig{
			{ID: "MB1.T1", Catalog: "", Slot: 0},
		},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad update folder.
	cfg = &Config{
		Broker:             BrokerConfig{URL: "tcp://127.0.0.1:1883"},
		ServerUpdateFolder: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay: defaults are filled in.
	cfg = &Config{
		Broker:             BrokerConfig{URL: "tcp://127.0.0.1:1883"},
		ServerUpdateFolder: "https://example.com/x",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultSystem, cfg.System)
	require.Equal(t, DefaultClientID, cfg.Broker.ClientID)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultSnapshotFilename, cfg.SnapshotFile)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		System: "lab-ips",
		Broker: BrokerConfig{
			URL:      "tcp://127.0.0.1:1883",
			ClientID: "monitor-test",
			QoS:      1,
		},
		Decoder: DecoderConfig{
			TrimSpace:     true,
			StripPrefixes: []string{"STAT:SYS:ALRM:"},
		},
		Catalogs: map[string][]string{
			"switch": {"Open circuit", "Short circuit"},
		},
		Boards: []BoardConfig{
			{ID: "MB1.T1", Catalog: "temperature", Slot: 0},
			{ID: "SW1.S1", Catalog: "switch", Slot: 1},
		},
		ServerUpdateFolder: "https://updates.local/",
		Timeout:            3 * time.Second,
		LogLevel:           "debug",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.System, loaded.System)
	require.Equal(t, cfg.Broker, loaded.Broker)
	require.Equal(t, cfg.Decoder, loaded.Decoder)
	require.Equal(t, cfg.Catalogs, loaded.Catalogs)
	require.Equal(t, cfg.Boards, loaded.Boards)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// File exists with restricted permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestSaveNilConfig ensures a nil configuration is rejected.
func TestSaveNilConfig(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "settings.yaml"), nil))
}
