package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
)

// Repository defines persistence operations for the decoded snapshot.
type Repository interface {
	Load(ctx context.Context) (*alarms.Snapshot, error)
	Save(ctx context.Context, snapshot *alarms.Snapshot) error
}

// ErrNotFound is returned when the snapshot file does not exist yet.
var ErrNotFound = errors.New("snapshot not found")

// errSnapshotIsNotSet is returned when a nil snapshot is saved.
var errSnapshotIsNotSet = errors.New("snapshot is not set")

// FileRepository persists the latest snapshot to a JSON file on disk.
// Only the most recent cycle is kept; history belongs to the InfluxDB sink.
type FileRepository struct {
	// path is the filesystem location of the JSON snapshot file.
	path string
	// mu protects concurrent access to the snapshot file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the latest snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (*alarms.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snapshot alarms.Snapshot
	if err = json.Unmarshal(contents, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}

	return &snapshot, nil
}

// Save writes the snapshot to disk, replacing the previous cycle.
func (r *FileRepository) Save(_ context.Context, snapshot *alarms.Snapshot) error {
	if snapshot == nil {
		return errSnapshotIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}
