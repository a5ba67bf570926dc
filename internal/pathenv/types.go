package pathenv

import (
	"errors"
	"fmt"
)

// ShellType identifies the shell family a startup file belongs to.
type ShellType string

const (
	ShellBash    ShellType = "bash"
	ShellZsh     ShellType = "zsh"
	ShellFish    ShellType = "fish"
	ShellUnknown ShellType = "unknown"
)

// String returns the shell name.
func (s ShellType) String() string {
	return string(s)
}

// ErrIntegrationFailed indicates PATH integration could not be performed.
// Callers fall back to printing manual instructions.
var ErrIntegrationFailed = errors.New("PATH integration failed")

// Result describes what a successful integration changed.
type Result struct {
	// Method is "rcfile", "registry", or "none" when the directory was
	// already on PATH.
	Method string
	// RCFile is the startup file that was edited (rcfile method).
	RCFile string
	// Shell is the shell family the edited file belongs to.
	Shell ShellType
	// Scope is "user" or "machine" (registry method).
	Scope string
	// AlreadyPresent reports that no edit was needed.
	AlreadyPresent bool
}

// RCFileError describes a failure while reading or editing a shell
// startup file.
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file %s: %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
