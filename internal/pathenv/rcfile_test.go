package pathenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectRCFile(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string // relative to home
		wantRel   string
		wantShell ShellType
	}{
		{
			name:      "zshrc preferred when present",
			existing:  []string{".zshrc", ".bashrc"},
			wantRel:   ".zshrc",
			wantShell: ShellZsh,
		},
		{
			name:      "bashrc when no zshrc",
			existing:  []string{".bashrc", ".bash_profile"},
			wantRel:   ".bashrc",
			wantShell: ShellBash,
		},
		{
			name:      "bash_profile fallback",
			existing:  []string{".bash_profile"},
			wantRel:   ".bash_profile",
			wantShell: ShellBash,
		},
		{
			name:      "fish config last",
			existing:  []string{filepath.Join(".config", "fish", "config.fish")},
			wantRel:   filepath.Join(".config", "fish", "config.fish"),
			wantShell: ShellFish,
		},
		{
			name:      "nothing exists defaults to zshrc",
			existing:  nil,
			wantRel:   ".zshrc",
			wantShell: ShellZsh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			for _, rel := range tt.existing {
				path := filepath.Join(home, rel)
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
				if err := os.WriteFile(path, []byte("# existing\n"), 0644); err != nil {
					t.Fatalf("write %s: %v", rel, err)
				}
			}

			gotPath, gotShell := SelectRCFile(home)
			if want := filepath.Join(home, tt.wantRel); gotPath != want {
				t.Errorf("selected %s, want %s", gotPath, want)
			}
			if gotShell != tt.wantShell {
				t.Errorf("shell = %s, want %s", gotShell, tt.wantShell)
			}
		})
	}
}

func TestPathLine(t *testing.T) {
	if got := PathLine("/opt/bin", ShellBash); got != `export PATH="/opt/bin:$PATH"` {
		t.Errorf("bash line = %q", got)
	}
	if got := PathLine("/opt/bin", ShellZsh); got != `export PATH="/opt/bin:$PATH"` {
		t.Errorf("zsh line = %q", got)
	}
	if got := PathLine("/opt/bin", ShellFish); got != "fish_add_path /opt/bin" {
		t.Errorf("fish line = %q", got)
	}
}

func TestAddPathLineIdempotent(t *testing.T) {
	home := t.TempDir()
	rcPath := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(rcPath, []byte("# my config\nalias ll='ls -l'\n"), 0644); err != nil {
		t.Fatalf("write rc file: %v", err)
	}

	dir := filepath.Join(home, ".local", "bin")

	added, err := AddPathLine(rcPath, dir, ShellBash)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if !added {
		t.Fatal("first add reported no change")
	}

	// Second run must not duplicate the line.
	added, err = AddPathLine(rcPath, dir, ShellBash)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added {
		t.Error("second add should be a no-op")
	}

	data, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatalf("read rc file: %v", err)
	}
	content := string(data)
	if count := strings.Count(content, dir); count != 1 {
		t.Errorf("install dir appears %d times, want 1\n%s", count, content)
	}
	if !strings.Contains(content, "alias ll='ls -l'") {
		t.Error("existing content was lost")
	}
	if !strings.Contains(content, markerComment) {
		t.Error("marker comment missing")
	}
}

func TestAddPathLineCreatesMissingFile(t *testing.T) {
	home := t.TempDir()
	rcPath := filepath.Join(home, ".config", "fish", "config.fish")
	dir := filepath.Join(home, ".local", "bin")

	added, err := AddPathLine(rcPath, dir, ShellFish)
	if err != nil {
		t.Fatalf("add to missing file: %v", err)
	}
	if !added {
		t.Fatal("expected line to be added")
	}

	data, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatalf("read created rc file: %v", err)
	}
	if !strings.Contains(string(data), "fish_add_path "+dir) {
		t.Errorf("fish syntax missing from created file:\n%s", data)
	}
}

func TestAddPathLinePreservesMode(t *testing.T) {
	home := t.TempDir()
	rcPath := filepath.Join(home, ".zshrc")
	if err := os.WriteFile(rcPath, []byte("# config\n"), 0600); err != nil {
		t.Fatalf("write rc file: %v", err)
	}

	if _, err := AddPathLine(rcPath, "/opt/bin", ShellZsh); err != nil {
		t.Fatalf("add: %v", err)
	}

	info, err := os.Stat(rcPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestRemovePathLine(t *testing.T) {
	home := t.TempDir()
	rcPath := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(rcPath, []byte("alias ll='ls -l'\n"), 0644); err != nil {
		t.Fatalf("write rc file: %v", err)
	}

	dir := filepath.Join(home, ".local", "bin")
	if _, err := AddPathLine(rcPath, dir, ShellBash); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := RemovePathLine(rcPath, dir)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Fatal("expected removal to report a change")
	}

	data, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatalf("read rc file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, dir) {
		t.Errorf("install dir still present after removal:\n%s", content)
	}
	if strings.Contains(content, markerComment) {
		t.Error("marker comment still present after removal")
	}
	if !strings.Contains(content, "alias ll='ls -l'") {
		t.Error("unrelated content was removed")
	}

	// Removing again is a clean no-op.
	removed, err = RemovePathLine(rcPath, dir)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if removed {
		t.Error("second remove should report no change")
	}
}

func TestRemovePathLineMissingFile(t *testing.T) {
	removed, err := RemovePathLine(filepath.Join(t.TempDir(), ".bashrc"), "/opt/bin")
	if err != nil {
		t.Fatalf("remove on missing file: %v", err)
	}
	if removed {
		t.Error("missing file should report no change")
	}
}

func TestHasPathLineIgnoresComments(t *testing.T) {
	home := t.TempDir()
	rcPath := filepath.Join(home, ".bashrc")
	content := "# /opt/bin was here once\n"
	if err := os.WriteFile(rcPath, []byte(content), 0644); err != nil {
		t.Fatalf("write rc file: %v", err)
	}

	has, err := HasPathLine(rcPath, "/opt/bin")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Error("commented-out mention should not count as present")
	}
}
