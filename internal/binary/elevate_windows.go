//go:build windows

package binary

import "fmt"

// elevatedInstall is not supported on Windows: there is no sudo equivalent
// to scope to the final rename. The user is told to re-run from an elevated
// prompt instead.
func elevatedInstall(srcPath, destDir, destPath string) error {
	return fmt.Errorf("%w: %s is not writable; re-run from an elevated (Administrator) prompt or choose a writable --dir", ErrInstallFailed, destDir)
}
