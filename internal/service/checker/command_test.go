package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
	"github.com/magnetlab/ips-alarm-monitor/internal/repository/snapshot"
)

var errTestLoad = errors.New("test load error")

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// snap is the snapshot to return from Load operations.
	snap *alarms.Snapshot
	// loadErr is the error to return from Load operations.
	loadErr error
}

func (m *memoryRepository) Load(context.Context) (*alarms.Snapshot, error) {
	return m.snap, m.loadErr
}

func (m *memoryRepository) Save(context.Context, *alarms.Snapshot) error {
	return nil
}

// TestCheck_SnapshotStates covers fresh, missing and unreadable snapshots.
func TestCheck_SnapshotStates(t *testing.T) {
	t.Parallel()

	// Fresh snapshot.
	result := check(context.Background(), &memoryRepository{
		snap: &alarms.Snapshot{Timestamp: time.Now().Add(-time.Second)},
	})
	require.True(t, result.snapshotFound)
	require.GreaterOrEqual(t, result.snapshotAge, time.Second)

	// No snapshot yet.
	result = check(context.Background(), &memoryRepository{loadErr: snapshot.ErrNotFound})
	require.False(t, result.snapshotFound)
	require.Negative(t, result.snapshotAge)

	// Unreadable snapshot is treated like a missing one.
	result = check(context.Background(), &memoryRepository{loadErr: errTestLoad})
	require.False(t, result.snapshotFound)
}

// TestReport_Healthy covers the health decision matrix.
func TestReport_Healthy(t *testing.T) {
	t.Parallel()

	maxAge := time.Minute

	require.True(t, report{processRunning: true, snapshotFound: true, snapshotAge: time.Second}.healthy(maxAge))
	require.False(t, report{processRunning: false, snapshotFound: true, snapshotAge: time.Second}.healthy(maxAge))
	require.False(t, report{processRunning: true, snapshotFound: false, snapshotAge: -1}.healthy(maxAge))
	require.False(t, report{processRunning: true, snapshotFound: true, snapshotAge: 2 * time.Minute}.healthy(maxAge))
}

// TestIsProcessRunning_NotFound asserts a nonexistent name is not reported.
func TestIsProcessRunning_NotFound(t *testing.T) {
	t.Parallel()

	require.False(t, isProcessRunning(context.Background(), "no-such-executable-here"))
}
