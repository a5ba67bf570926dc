package main

import (
	"path/filepath"
	"testing"

	"github.com/meldoc-io/meldoc-cli/internal/platform"
)

func TestDefaultInstallDir(t *testing.T) {
	linux := platform.Tag{OS: platform.OSLinux, Arch: platform.ArchAMD64}

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("MELDOC_INSTALL_DIR", "/custom/bin")
		dir, err := defaultInstallDir(linux, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/custom/bin" {
			t.Errorf("dir = %s, want /custom/bin", dir)
		}
	})

	t.Run("global uses system location", func(t *testing.T) {
		t.Setenv("MELDOC_INSTALL_DIR", "")
		dir, err := defaultInstallDir(linux, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/usr/local/bin" {
			t.Errorf("dir = %s, want /usr/local/bin", dir)
		}
	})

	t.Run("user default under home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("MELDOC_INSTALL_DIR", "")
		t.Setenv("HOME", home)
		dir, err := defaultInstallDir(linux, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, ".local", "bin"); dir != want {
			t.Errorf("dir = %s, want %s", dir, want)
		}
	})

	t.Run("windows uses LOCALAPPDATA", func(t *testing.T) {
		windows := platform.Tag{OS: platform.OSWindows, Arch: platform.ArchAMD64}
		t.Setenv("MELDOC_INSTALL_DIR", "")
		t.Setenv("LOCALAPPDATA", filepath.Join(t.TempDir(), "AppData", "Local"))
		dir, err := defaultInstallDir(windows, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(dir) != "bin" {
			t.Errorf("windows install dir should end in bin: %s", dir)
		}
	})

	t.Run("windows global uses ProgramFiles", func(t *testing.T) {
		windows := platform.Tag{OS: platform.OSWindows, Arch: platform.ArchAMD64}
		programFiles := filepath.Join(t.TempDir(), "Program Files")
		t.Setenv("MELDOC_INSTALL_DIR", "")
		t.Setenv("ProgramFiles", programFiles)
		t.Setenv("LOCALAPPDATA", filepath.Join(t.TempDir(), "AppData", "Local"))
		dir, err := defaultInstallDir(windows, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(programFiles, "meldoc", "bin"); dir != want {
			t.Errorf("dir = %s, want %s", dir, want)
		}
	})
}

func TestStateDir(t *testing.T) {
	linux := platform.Tag{OS: platform.OSLinux, Arch: platform.ArchAMD64}

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("MELDOC_STATE_DIR", "/custom/state")
		dir, err := stateDir(linux)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/custom/state" {
			t.Errorf("dir = %s, want /custom/state", dir)
		}
	})

	t.Run("xdg state home", func(t *testing.T) {
		t.Setenv("MELDOC_STATE_DIR", "")
		t.Setenv("XDG_STATE_HOME", "/xdg/state")
		dir, err := stateDir(linux)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join("/xdg/state", "meldoc"); dir != want {
			t.Errorf("dir = %s, want %s", dir, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("MELDOC_STATE_DIR", "")
		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", home)
		dir, err := stateDir(linux)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, ".local", "state", "meldoc"); dir != want {
			t.Errorf("dir = %s, want %s", dir, want)
		}
	})
}
