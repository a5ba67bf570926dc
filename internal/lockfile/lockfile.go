// Package lockfile guards against concurrent installer runs racing on the
// same destination. The lock is a file created with O_CREATE|O_EXCL in the
// state directory; a crashed run's leftover lock is taken over once it
// passes the stale threshold.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StaleThreshold is the maximum age of a lock before it is considered
// abandoned by a crashed run.
const StaleThreshold = 10 * time.Minute

// ErrLockHeld indicates another installer run holds the lock.
var ErrLockHeld = errors.New("another installer run appears to be in progress")

// Lock represents a held installer lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire attempts to take the installer lock in dir. Creation with
// O_CREATE|O_EXCL makes the attempt atomic; a stale lock is removed and the
// acquisition retried once.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, "install.lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if stale, _ := isStale(lockPath); !stale {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLockHeld, lockPath)
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLockHeld, lockPath)
		}
	}

	meta := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(meta); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock metadata: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release releases the lock. Safe to call on all exit paths.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}
	return nil
}

func isStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > StaleThreshold, nil
}
