package binary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Installer performs the atomic final step: a copy into a uniquely named
// temporary file inside the target directory followed by a rename over the
// destination. Rename is used because it is the only step atomic with
// respect to concurrent readers of the old binary.
type Installer struct{}

// NewInstaller creates a new installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Install places srcPath at destDir/destName. When executable is set the
// file is marked 0755 before the rename. If destDir is not writable by the
// current user and elevate is permitted, only the copy/rename runs with
// elevated rights.
//
// Returns the final path and whether elevation was used.
func (i *Installer) Install(srcPath, destDir, destName string, executable, elevate bool) (string, bool, error) {
	destPath := filepath.Join(destDir, destName)

	if dirWritable(destDir) {
		if err := i.installDirect(srcPath, destDir, destPath, executable); err != nil {
			return "", false, err
		}
		return destPath, false, nil
	}

	if !elevate {
		return "", false, fmt.Errorf("%w: %s is not writable (re-run with elevation or choose a writable --dir)", ErrInstallFailed, destDir)
	}

	if err := elevatedInstall(srcPath, destDir, destPath); err != nil {
		return "", false, err
	}
	return destPath, true, nil
}

// installDirect runs the copy/chmod/rename sequence as the current user.
func (i *Installer) installDirect(srcPath, destDir, destPath string, executable bool) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: create target dir %s: %v", ErrInstallFailed, destDir, err)
	}

	// The temp file must live inside the target directory: rename is only
	// atomic within one filesystem.
	tmpPath := filepath.Join(destDir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(destPath), uuid.New().String()))

	if err := copyFile(srcPath, tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: stage %s: %v", ErrInstallFailed, tmpPath, err)
	}

	if executable {
		if err := os.Chmod(tmpPath, 0755); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("%w: mark executable: %v", ErrInstallFailed, err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename into %s: %v", ErrInstallFailed, destPath, err)
	}

	return nil
}

// dirWritable probes whether the current user can create files in dir.
func dirWritable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		// A missing directory is "writable" if we can create it; let the
		// MkdirAll in the direct path decide.
		return err != nil && os.IsNotExist(err) && parentWritable(dir)
	}

	probe, err := os.CreateTemp(dir, ".meldoc-probe-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

func parentWritable(dir string) bool {
	parent := filepath.Dir(dir)
	if parent == dir {
		return false
	}
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		return parentWritable(parent)
	}
	probe, err := os.CreateTemp(parent, ".meldoc-probe-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync destination: %w", err)
	}

	return out.Close()
}
