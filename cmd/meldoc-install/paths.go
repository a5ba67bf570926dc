package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meldoc-io/meldoc-cli/internal/platform"
)

const (
	toolName = "meldoc"

	// defaultLatestURL is the static LATEST pointer: a plain-text file whose
	// trimmed body is the current version.
	defaultLatestURL = "https://get.meldoc.io/LATEST"

	// GitHub repository backing the releases API source.
	releaseOwner = "meldoc-io"
	releaseRepo  = "meldoc"
)

// defaultInstallDir returns the destination directory honoring, in order:
// MELDOC_INSTALL_DIR, the --global system location, the per-user default.
func defaultInstallDir(tag platform.Tag, global bool) (string, error) {
	if dir := os.Getenv("MELDOC_INSTALL_DIR"); dir != "" {
		return dir, nil
	}

	if tag.IsWindows() {
		if global {
			programFiles := os.Getenv("ProgramFiles")
			if programFiles == "" {
				return "", fmt.Errorf("ProgramFiles is not set")
			}
			return filepath.Join(programFiles, toolName, "bin"), nil
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		return filepath.Join(localAppData, "Programs", toolName, "bin"), nil
	}

	if global {
		return "/usr/local/bin", nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "bin"), nil
}

// stateDir returns where the installer keeps its receipt and lock file:
// MELDOC_STATE_DIR, then the platform state convention.
func stateDir(tag platform.Tag) (string, error) {
	if dir := os.Getenv("MELDOC_STATE_DIR"); dir != "" {
		return dir, nil
	}

	if tag.IsWindows() {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		return filepath.Join(localAppData, toolName, "state"), nil
	}

	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, toolName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", toolName), nil
}
