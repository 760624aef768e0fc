package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BrokerConfig holds MQTT broker connection parameters.
type BrokerConfig struct {
	// URL is the broker address (e.g. "tcp://127.0.0.1:1883").
	URL string `yaml:"url"`
	// ClientID identifies this process to the broker.
	ClientID string `yaml:"client_id"`
	// Username is the optional broker username.
	Username string `yaml:"username"`
	// Password is the optional broker password.
	Password string `yaml:"password"`
	// QoS is the quality-of-service level for publishes and subscriptions (0-2).
	QoS byte `yaml:"qos"`
}

// InfluxConfig holds the optional InfluxDB sink parameters.
type InfluxConfig struct {
	// Enabled toggles recording of decoded masks to InfluxDB.
	Enabled bool `yaml:"enabled"`
	// URL is the InfluxDB server address.
	URL string `yaml:"url"`
	// Token is the API token used for authentication.
	Token string `yaml:"token"`
	// Org is the InfluxDB organisation.
	Org string `yaml:"org"`
	// Bucket is the destination bucket for board status points.
	Bucket string `yaml:"bucket"`
	// BatchSize is the write batch size; defaults apply when zero.
	BatchSize int `yaml:"batch_size"`
	// FlushIntervalSeconds is the write flush interval in seconds.
	FlushIntervalSeconds int `yaml:"flush_interval_seconds"`
}

// DecoderConfig holds decoder strictness knobs.
type DecoderConfig struct {
	// TrimSpace trims whitespace around board identifiers and messages
	// before matching. Off by default: the wire format does not pad fields.
	TrimSpace bool `yaml:"trim_space"`
	// StripPrefixes lists device reply headers removed before tokenizing.
	StripPrefixes []string `yaml:"strip_prefixes"`
}

// BoardConfig declares one monitored board in the registry table.
type BoardConfig struct {
	// ID is the exact-match board identifier.
	ID string `yaml:"id"`
	// Catalog names the status catalog for the board's type.
	Catalog string `yaml:"catalog"`
	// Slot is the output slot index.
	Slot int `yaml:"slot"`
}

// Config holds settings shared by the monitor suite binaries.
type Config struct {
	// System names the monitored installation; used in topics and tags.
	System string `yaml:"system"`
	// Broker holds MQTT connection parameters.
	Broker BrokerConfig `yaml:"broker"`
	// Influx holds the optional InfluxDB sink parameters.
	Influx InfluxConfig `yaml:"influx"`
	// Decoder holds decoder strictness knobs.
	Decoder DecoderConfig `yaml:"decoder"`
	// Catalogs declares additional status catalogs by name. Built-in
	// catalogs (temperature, level, pressure) may be overridden by name.
	Catalogs map[string][]string `yaml:"catalogs"`
	// Boards declares the board registry. Empty means the stock wiring.
	Boards []BoardConfig `yaml:"boards"`
	// SnapshotFile is the path where the latest decoded snapshot is persisted.
	SnapshotFile string `yaml:"snapshot_file"`
	// ServerUpdateFolder is the URL where update artifacts are hosted.
	ServerUpdateFolder string `yaml:"update_folder"`
	// Timeout is the duration for network operations.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level for log output.
	LogLevel string `yaml:"log_level"`
	// UpdateType is set at runtime by the updater to pick a role-specific
	// file set from the update manifest. It is not persisted to YAML.
	UpdateType string `yaml:"-"`
}

const (
	// DefaultConfigFilename is the default filename for monitor settings.
	DefaultConfigFilename = "ips-alarm-settings.yaml"

	// DefaultSnapshotFilename is the default filename for the snapshot JSON.
	DefaultSnapshotFilename = "ips-alarm-snapshot.json"

	// DefaultSystem is the system name used when none is configured.
	DefaultSystem = "ips"

	// DefaultClientID is the broker client identifier used when none is configured.
	DefaultClientID = "ips-alarm-monitor"

	// DefaultQoS is the MQTT quality-of-service level used when none is configured.
	DefaultQoS byte = 1

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxQoS is the highest valid MQTT quality-of-service level.
	maxQoS byte = 2
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBrokerURLRequired is returned when the broker URL is missing.
	errBrokerURLRequired = errors.New("broker URL must be provided")
	// errInvalidQoS is returned when the QoS level is out of range.
	errInvalidQoS = errors.New("broker QoS must be between 0 and 2")
	// errBoardIDRequired is returned when a board table entry has no identifier.
	errBoardIDRequired = errors.New("board identifier must be provided")
	// errBoardCatalogRequired is returned when a board table entry names no catalog.
	errBoardCatalogRequired = errors.New("board catalog must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file may carry broker credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
// Registry-level consistency (catalog references, slot uniqueness and range)
// is validated where the board registry is built.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Broker.URL == "" {
		return errBrokerURLRequired
	}

	if _, err := url.Parse(cfg.Broker.URL); err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}

	if cfg.Broker.QoS > maxQoS {
		return errInvalidQoS
	}

	// Fill defaults for optional fields.
	if cfg.System == "" {
		cfg.System = DefaultSystem
	}

	if cfg.Broker.ClientID == "" {
		cfg.Broker.ClientID = DefaultClientID
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = DefaultSnapshotFilename
	}

	for i, board := range cfg.Boards {
		if board.ID == "" {
			return fmt.Errorf("board %d: %w", i, errBoardIDRequired)
		}

		if board.Catalog == "" {
			return fmt.Errorf("board %s: %w", board.ID, errBoardCatalogRequired)
		}
	}

	if cfg.ServerUpdateFolder == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(cfg.ServerUpdateFolder); err != nil {
		return fmt.Errorf("invalid update folder URI: %w", err)
	}

	return nil
}
