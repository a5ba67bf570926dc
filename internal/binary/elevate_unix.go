//go:build !windows

package binary

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// elevatedInstall performs the copy/chmod/rename sequence via sudo. Only
// these three steps run elevated; download, extraction, and verification
// have already happened as the invoking user.
func elevatedInstall(srcPath, destDir, destPath string) error {
	tmpPath := filepath.Join(destDir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(destPath), uuid.New().String()))

	steps := [][]string{
		{"mkdir", "-p", destDir},
		{"cp", srcPath, tmpPath},
		{"chmod", "0755", tmpPath},
		{"mv", "-f", tmpPath, destPath},
	}

	for _, step := range steps {
		cmd := exec.Command("sudo", step...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			// Best-effort removal of the staged file; it may not exist yet.
			exec.Command("sudo", "rm", "-f", tmpPath).Run()
			return fmt.Errorf("%w: elevated %q: %v", ErrInstallFailed, step[0], err)
		}
	}

	return nil
}
