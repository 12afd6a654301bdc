package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Destination is an opaque handle to an external writable location. Write
// permission can be revoked behind the service's back, so EnsureWritable is
// queried immediately before every write.
type Destination interface {
	// Name returns a human-readable description of the location.
	Name() string

	// EnsureWritable queries, and if necessary requests, write access.
	// Returns ErrPermissionDenied when access cannot be obtained.
	EnsureWritable() error

	// CreateFile opens a named file at the destination for writing,
	// replacing any previous content.
	CreateFile(name string) (io.WriteCloser, error)
}

// Fallback receives a snapshot when the configured destination cannot be
// written — the "offer as download" path. Implementations return a
// human-readable location for the descriptor.
type Fallback interface {
	Offer(name string, data []byte) (string, error)
}

// DirDestination is a Destination over a filesystem directory.
type DirDestination struct {
	path string
}

var _ Destination = (*DirDestination)(nil)

// NewDirDestination creates a destination rooted at the given directory.
// The directory is not created or probed until the first write.
func NewDirDestination(path string) *DirDestination {
	return &DirDestination{path: path}
}

// Name returns the directory path.
func (d *DirDestination) Name() string {
	return d.path
}

// EnsureWritable probes the directory with a throwaway file. A missing
// directory or a failed probe both report ErrPermissionDenied: for the
// backup flow a revoked grant and a vanished folder are the same condition.
func (d *DirDestination) EnsureWritable() error {
	info, err := os.Stat(d.path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, d.path)
	}

	probe := filepath.Join(d.path, ".clipkeep-write-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPermissionDenied, d.path, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// CreateFile creates the named file inside the directory.
func (d *DirDestination) CreateFile(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(d.path, name))
}

// DownloadDir is the default Fallback: snapshots land as plain files in a
// downloads directory, which is created on demand.
type DownloadDir struct {
	path string
}

var _ Fallback = (*DownloadDir)(nil)

// NewDownloadDir creates a fallback sink writing into the given directory.
func NewDownloadDir(path string) *DownloadDir {
	return &DownloadDir{path: path}
}

// Offer writes the snapshot into the downloads directory and returns the
// full path.
func (d *DownloadDir) Offer(name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return "", err
	}
	target := filepath.Join(d.path, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", err
	}
	return target, nil
}
