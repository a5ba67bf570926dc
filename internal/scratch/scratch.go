// Package scratch manages the per-run temporary directory used for downloads
// and extraction. The directory is private to one installer invocation and
// must be removed on every exit path, success or failure.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir is a per-run scratch directory.
type Dir struct {
	path string
}

// New creates a fresh, uniquely named scratch directory under the system
// temp directory.
func New(tool string) (*Dir, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-install-%s", tool, uuid.New().String()))
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the scratch directory's root.
func (d *Dir) Path() string {
	return d.path
}

// Join returns a path inside the scratch directory.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Cleanup removes the scratch directory and everything in it. It is safe to
// call more than once; callers defer it immediately after New so the
// directory never outlives the process.
func (d *Dir) Cleanup() error {
	if d.path == "" {
		return nil
	}
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("remove scratch directory: %w", err)
	}
	d.path = ""
	return nil
}
