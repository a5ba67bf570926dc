//go:build !windows

package pathenv

import (
	"fmt"
	"os"
	"strings"
)

// Integrate makes dir reachable from future shell sessions by appending an
// export line to the user's startup file. The global flag has no effect on
// Unix: /usr/local/bin is on the default PATH already, and when it is not,
// the same rc-file edit applies.
func Integrate(dir string, global bool) (*Result, error) {
	if OnPath(dir, os.Getenv("PATH"), false) {
		return &Result{Method: "none", AlreadyPresent: true}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: get home directory: %v", ErrIntegrationFailed, err)
	}

	rcPath, shell := SelectRCFile(homeDir)
	added, err := AddPathLine(rcPath, dir, shell)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrationFailed, err)
	}

	return &Result{
		Method:         "rcfile",
		RCFile:         rcPath,
		Shell:          shell,
		AlreadyPresent: !added,
	}, nil
}

// Remove undoes a previous rc-file integration. Best-effort: a missing or
// already-clean file is not an error.
func Remove(dir, rcPath string) (bool, error) {
	if rcPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return false, fmt.Errorf("%w: get home directory: %v", ErrIntegrationFailed, err)
		}
		rcPath, _ = SelectRCFile(homeDir)
	}
	removed, err := RemovePathLine(rcPath, dir)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIntegrationFailed, err)
	}
	return removed, nil
}

// CurrentShell guesses the user's shell family from $SHELL for the manual
// instruction text.
func CurrentShell() ShellType {
	shell := os.Getenv("SHELL")
	switch {
	case shell == "":
		return ShellUnknown
	case strings.HasSuffix(shell, "zsh"):
		return ShellZsh
	case strings.HasSuffix(shell, "bash"):
		return ShellBash
	case strings.HasSuffix(shell, "fish"):
		return ShellFish
	default:
		return ShellUnknown
	}
}
