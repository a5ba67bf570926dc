package receipt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "state")

	r := New("meldoc")
	r.Version = "1.2.3"
	r.Tag = "v1.2.3"
	r.Platform = "linux-amd64"
	r.InstallDir = "/home/user/.local/bin"
	r.BinaryPath = "/home/user/.local/bin/meldoc"
	r.Verified = "SHA256"
	r.PathIntegration = PathIntegration{
		Method: "rcfile",
		RCFile: "/home/user/.bashrc",
	}

	if err := r.Save(stateDir); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(stateDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d, want %d", loaded.SchemaVersion, SchemaVersion)
	}
	if loaded.ID != r.ID {
		t.Errorf("id = %s, want %s", loaded.ID, r.ID)
	}
	if loaded.Tool != "meldoc" || loaded.Version != "1.2.3" || loaded.Tag != "v1.2.3" {
		t.Errorf("identity fields mismatch: %+v", loaded)
	}
	if loaded.BinaryPath != r.BinaryPath {
		t.Errorf("binary path = %s, want %s", loaded.BinaryPath, r.BinaryPath)
	}
	if loaded.PathIntegration != r.PathIntegration {
		t.Errorf("path integration = %+v, want %+v", loaded.PathIntegration, r.PathIntegration)
	}
	if loaded.InstalledAt.IsZero() {
		t.Error("installed-at timestamp was not preserved")
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	stateDir := t.TempDir()

	first := New("meldoc")
	first.Version = "1.0.0"
	if err := first.Save(stateDir); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := New("meldoc")
	second.Version = "2.0.0"
	if err := second.Save(stateDir); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, err := Load(stateDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Version != "2.0.0" {
		t.Errorf("version = %s, want 2.0.0", loaded.Version)
	}

	// No temp file left behind by the atomic write.
	if _, err := os.Stat(Path(stateDir) + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary receipt file left behind")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing receipt")
	}
}

func TestLoadMalformed(t *testing.T) {
	stateDir := t.TempDir()
	if err := os.WriteFile(Path(stateDir), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write malformed receipt: %v", err)
	}
	if _, err := Load(stateDir); err == nil {
		t.Fatal("expected error for malformed receipt")
	}
}

func TestRemove(t *testing.T) {
	stateDir := t.TempDir()

	r := New("meldoc")
	if err := r.Save(stateDir); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := Remove(stateDir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := Load(stateDir); err == nil {
		t.Error("receipt still loadable after remove")
	}

	// Removing an absent receipt is not an error.
	if err := Remove(stateDir); err != nil {
		t.Errorf("remove absent receipt: %v", err)
	}
}
