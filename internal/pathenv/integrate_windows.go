//go:build windows

package pathenv

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const (
	userEnvKey    = `Environment`
	machineEnvKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
)

// Integrate appends dir to the persistent Path value in the registry.
// User scope edits HKCU\Environment; global edits the machine environment
// key, which requires an elevated process. The inherited process PATH is
// also extended so the binary is usable in the current session.
func Integrate(dir string, global bool) (*Result, error) {
	scope := "user"
	root, keyPath := registry.CURRENT_USER, userEnvKey
	if global {
		scope = "machine"
		root, keyPath = registry.LOCAL_MACHINE, machineEnvKey
	}

	key, err := registry.OpenKey(root, keyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s environment key: %v", ErrIntegrationFailed, scope, err)
	}
	defer key.Close()

	current, valType, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return nil, fmt.Errorf("%w: read Path value: %v", ErrIntegrationFailed, err)
	}

	if OnPath(dir, current, true) {
		return &Result{Method: "registry", Scope: scope, AlreadyPresent: true}, nil
	}

	updated := dir
	if current != "" {
		updated = strings.TrimRight(current, ";") + ";" + dir
	}

	// Preserve REG_EXPAND_SZ when the existing value uses it, so entries
	// like %SystemRoot% keep expanding.
	if valType == registry.EXPAND_SZ {
		err = key.SetExpandStringValue("Path", updated)
	} else {
		err = key.SetStringValue("Path", updated)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: write Path value: %v", ErrIntegrationFailed, err)
	}

	// Make the current session usable too; new sessions read the registry.
	if !OnPath(dir, os.Getenv("PATH"), true) {
		os.Setenv("PATH", os.Getenv("PATH")+";"+dir)
	}

	return &Result{Method: "registry", Scope: scope}, nil
}

// Remove deletes dir from the persistent Path value in the given scope.
func Remove(dir, scope string) (bool, error) {
	root, keyPath := registry.CURRENT_USER, userEnvKey
	if scope == "machine" {
		root, keyPath = registry.LOCAL_MACHINE, machineEnvKey
	}

	key, err := registry.OpenKey(root, keyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return false, fmt.Errorf("%w: open %s environment key: %v", ErrIntegrationFailed, scope, err)
	}
	defer key.Close()

	current, valType, err := key.GetStringValue("Path")
	if err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, fmt.Errorf("%w: read Path value: %v", ErrIntegrationFailed, err)
	}

	entries := strings.Split(current, ";")
	kept := make([]string, 0, len(entries))
	removed := false
	for _, entry := range entries {
		if entry != "" && strings.EqualFold(strings.TrimRight(entry, `\`), strings.TrimRight(dir, `\`)) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return false, nil
	}

	updated := strings.Join(kept, ";")
	if valType == registry.EXPAND_SZ {
		err = key.SetExpandStringValue("Path", updated)
	} else {
		err = key.SetStringValue("Path", updated)
	}
	if err != nil {
		return false, fmt.Errorf("%w: write Path value: %v", ErrIntegrationFailed, err)
	}
	return true, nil
}

// CurrentShell is a stub on Windows; manual instructions use setx syntax
// rather than shell exports.
func CurrentShell() ShellType {
	return ShellUnknown
}
