// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv creates isolated test directories for each test.
// This ensures installer tests never touch:
// - The user's real home directory or shell rc files
// - Any actual meldoc installation or state
//
// The cleanup is handled by t.TempDir() and t.Setenv, so callers don't
// need to undo anything.
//
// Returns the temp directory serving as HOME.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("HOME", tmpDir)
	t.Setenv("MELDOC_INSTALL_DIR", filepath.Join(tmpDir, "bin"))
	t.Setenv("MELDOC_STATE_DIR", filepath.Join(tmpDir, "state"))

	dirs := []string{
		filepath.Join(tmpDir, "bin"),
		filepath.Join(tmpDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return tmpDir
}
