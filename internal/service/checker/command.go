package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
	"github.com/magnetlab/ips-alarm-monitor/internal/repository/snapshot"
)

// Options controls the checker polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// SnapshotFile provides an optional override for the snapshot JSON path.
	SnapshotFile string
	// PollInterval defines the interval between health checks.
	PollInterval time.Duration
	// MaxSnapshotAge is how stale the snapshot may get before it counts
	// as a failure. Zero selects the default.
	MaxSnapshotAge time.Duration
	// Once runs a single check and exits with an error when unhealthy.
	Once bool
}

const (
	// DefaultPollInterval defines the fixed polling interval for health checks.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxSnapshotAge is the default staleness threshold. The
	// controller reports every few seconds, so minutes of silence mean
	// the monitor lost its feed or died.
	DefaultMaxSnapshotAge = 5 * time.Minute

	// monitorExecutable is the process name the checker looks for.
	monitorExecutable = "ips-alarm-monitor"
)

// ErrMonitorUnhealthy indicates a failed health check in once mode.
var ErrMonitorUnhealthy = errors.New("alarm monitor is unhealthy")

// report is the outcome of one health check.
type report struct {
	// processRunning tells whether the monitor process was found.
	processRunning bool
	// snapshotAge is the time since the last persisted snapshot.
	// Negative when no snapshot exists.
	snapshotAge time.Duration
	// snapshotFound tells whether a snapshot file could be loaded.
	snapshotFound bool
}

// healthy reports whether both checks passed.
func (r report) healthy(maxAge time.Duration) bool {
	return r.processRunning && r.snapshotFound && r.snapshotAge <= maxAge
}

// Run polls the monitor process and snapshot freshness until canceled.
// In once mode a single failed check is returned as an error.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ips-alarm-checker")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.MaxSnapshotAge <= 0 {
		opts.MaxSnapshotAge = DefaultMaxSnapshotAge
	}

	// Use snapshot file from config unless overridden by command line option.
	snapshotFile := cfg.SnapshotFile
	if opts.SnapshotFile != "" {
		snapshotFile = opts.SnapshotFile
	}

	repo := snapshot.NewFileRepository(snapshotFile)

	if opts.Once {
		if !checkOnce(ctx, repo, opts.MaxSnapshotAge) {
			return ErrMonitorUnhealthy
		}

		return nil
	}

	logger.InfoKV(ctx, "Watching alarm monitor",
		"snapshot_file", snapshotFile,
		"interval", opts.PollInterval.String(),
		"max_snapshot_age", opts.MaxSnapshotAge.String())

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			checkOnce(ctx, repo, opts.MaxSnapshotAge)
		}
	}
}

// checkOnce runs one health check and logs the outcome.
func checkOnce(ctx context.Context, repo snapshot.Repository, maxAge time.Duration) bool {
	result := check(ctx, repo)

	switch {
	case !result.processRunning:
		logger.Warn(ctx, "Alarm monitor process is not running")
	case !result.snapshotFound:
		logger.Warn(ctx, "No alarm snapshot found yet")
	case result.snapshotAge > maxAge:
		logger.WarnKV(ctx, "Alarm snapshot is stale", "age", result.snapshotAge.String())
	default:
		logger.InfoKV(ctx, "Alarm monitor is healthy", "snapshot_age", result.snapshotAge.String())
	}

	return result.healthy(maxAge)
}

// check gathers the process and snapshot facts for one health check.
func check(ctx context.Context, repo snapshot.Repository) report {
	result := report{
		processRunning: isProcessRunning(ctx, monitorExecutable),
		snapshotAge:    -1,
	}

	snap, err := repo.Load(ctx)
	switch {
	case err == nil:
		result.snapshotFound = true
		result.snapshotAge = time.Since(snap.Timestamp)
	case errors.Is(err, snapshot.ErrNotFound):
		// First run: the monitor has not produced a snapshot yet.
	default:
		logger.WarnKV(ctx, "Failed to load snapshot", "error", err)
	}

	return result
}

// isProcessRunning reports whether a process with the provided executable
// name is currently running, excluding the checker itself.
func isProcessRunning(ctx context.Context, name string) bool {
	processList, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Failed to list processes", "error", err)

		return false
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		// Strip the Windows extension so one name matches all platforms.
		executable := strings.TrimSuffix(process.Executable(), ".exe")
		if executable == name {
			return true
		}
	}

	return false
}
