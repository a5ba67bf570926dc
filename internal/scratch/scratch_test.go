package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesPrivateDirectory(t *testing.T) {
	d, err := New("meldoc")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Cleanup()

	info, err := os.Stat(d.Path())
	if err != nil {
		t.Fatalf("stat scratch dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("scratch path is not a directory")
	}
	if !strings.HasPrefix(filepath.Base(d.Path()), "meldoc-install-") {
		t.Errorf("unexpected scratch dir name: %s", filepath.Base(d.Path()))
	}
}

func TestNewIsUniquePerRun(t *testing.T) {
	a, err := New("meldoc")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Cleanup()

	b, err := New("meldoc")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer b.Cleanup()

	if a.Path() == b.Path() {
		t.Error("two runs share a scratch directory")
	}
}

func TestJoin(t *testing.T) {
	d, err := New("meldoc")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Cleanup()

	got := d.Join("extract", "meldoc")
	want := filepath.Join(d.Path(), "extract", "meldoc")
	if got != want {
		t.Errorf("join = %s, want %s", got, want)
	}
}

func TestCleanupRemovesEverything(t *testing.T) {
	d, err := New("meldoc")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path := d.Path()
	if err := os.WriteFile(d.Join("artifact.tar.gz"), []byte("data"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := d.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("scratch directory still exists after cleanup")
	}

	// Second call must be a no-op.
	if err := d.Cleanup(); err != nil {
		t.Errorf("second cleanup: %v", err)
	}
}
