// Package snapshot implements persistence for the latest decoded Snapshot.
//
// The FileRepository stores and loads the snapshot as JSON on disk and
// exposes a Repository interface that the monitor and checker depend on.
package snapshot
