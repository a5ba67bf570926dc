// Package receipt records what an installer run put on disk. The receipt is
// a small JSON document written atomically after a successful install; the
// uninstaller loads it to find the binary and any PATH integration to undo.
package receipt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion guards future evolution of the receipt format.
const SchemaVersion = 1

// Filename is the receipt's stable name inside the state directory.
const Filename = "install-receipt.json"

// PathIntegration records how (or whether) the install directory was added
// to the user's persistent PATH.
type PathIntegration struct {
	// Method is "rcfile", "registry", or "none".
	Method string `json:"method"`
	// RCFile is the shell startup file edited (rcfile method only).
	RCFile string `json:"rc_file,omitempty"`
	// Scope is "user" or "machine" (registry method only).
	Scope string `json:"scope,omitempty"`
}

// Receipt describes one completed installation.
type Receipt struct {
	SchemaVersion   int             `json:"schema_version"`
	ID              string          `json:"id"`
	Tool            string          `json:"tool"`
	Version         string          `json:"version"`  // numeric form, e.g. "1.2.3"
	Tag             string          `json:"tag"`      // canonical form, e.g. "v1.2.3"
	Platform        string          `json:"platform"` // e.g. "linux-amd64"
	InstallDir      string          `json:"install_dir"`
	BinaryPath      string          `json:"binary_path"`
	Verified        string          `json:"verified"`
	InstalledAt     time.Time       `json:"installed_at"`
	PathIntegration PathIntegration `json:"path_integration"`
}

// New creates a receipt for a completed install.
func New(tool string) *Receipt {
	return &Receipt{
		SchemaVersion: SchemaVersion,
		ID:            uuid.New().String(),
		Tool:          tool,
		InstalledAt:   time.Now().UTC(),
		PathIntegration: PathIntegration{
			Method: "none",
		},
	}
}

// Path returns the receipt's location inside a state directory.
func Path(stateDir string) string {
	return filepath.Join(stateDir, Filename)
}

// Save writes the receipt atomically (write-then-rename) into stateDir.
func (r *Receipt) Save(stateDir string) error {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	finalPath := Path(stateDir)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary receipt: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename receipt: %w", err)
	}

	return nil
}

// Load reads the receipt from stateDir. A missing receipt returns an error
// satisfying os.IsNotExist via errors.Is(err, fs.ErrNotExist).
func Load(stateDir string) (*Receipt, error) {
	data, err := os.ReadFile(Path(stateDir))
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}

	return &r, nil
}

// Remove deletes the receipt. Missing receipts are not an error.
func Remove(stateDir string) error {
	if err := os.Remove(Path(stateDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove receipt: %w", err)
	}
	return nil
}
