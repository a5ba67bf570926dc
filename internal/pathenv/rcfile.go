package pathenv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// markerComment tags the lines this installer writes so the uninstaller can
// find and remove exactly what was added.
const markerComment = "# added by meldoc installer"

// rcCandidate pairs a startup file (relative to $HOME) with its shell
// family. Order is the selection preference: the first file that already
// exists wins, so we edit a file the user's shell actually reads.
type rcCandidate struct {
	relPath string
	shell   ShellType
}

var rcCandidates = []rcCandidate{
	{".zshrc", ShellZsh},
	{".bashrc", ShellBash},
	{".bash_profile", ShellBash},
	{filepath.Join(".config", "fish", "config.fish"), ShellFish},
}

// SelectRCFile picks the startup file to edit: the first existing candidate
// in preference order. When none exists it falls back to the first
// candidate, which will be created on write.
func SelectRCFile(homeDir string) (string, ShellType) {
	for _, c := range rcCandidates {
		path := filepath.Join(homeDir, c.relPath)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, c.shell
		}
	}
	first := rcCandidates[0]
	return filepath.Join(homeDir, first.relPath), first.shell
}

// PathLine returns the line that puts dir on PATH in the given shell's
// syntax.
func PathLine(dir string, shell ShellType) string {
	if shell == ShellFish {
		return fmt.Sprintf("fish_add_path %s", dir)
	}
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", dir)
}

// HasPathLine reports whether rcPath already contains a non-comment line
// mentioning dir. A missing file counts as not containing the line.
func HasPathLine(rcPath, dir string) (bool, error) {
	file, err := os.Open(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{Path: rcPath, Message: "failed to open file", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, dir) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}
	return false, nil
}

// AddPathLine appends the PATH line for dir to rcPath if it is not already
// there. The edit is atomic: the new content is written to a temp file in
// the same directory and renamed over the original. The file is created
// (with parents) when missing.
func AddPathLine(rcPath, dir string, shell ShellType) (bool, error) {
	present, err := HasPathLine(rcPath, dir)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}

	existing, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}

	var sb strings.Builder
	sb.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(markerComment)
	sb.WriteString("\n")
	sb.WriteString(PathLine(dir, shell))
	sb.WriteString("\n")

	if err := writeRCFileAtomic(rcPath, []byte(sb.String())); err != nil {
		return false, err
	}
	return true, nil
}

// RemovePathLine strips the installer's marker comment and any line
// mentioning dir from rcPath. A missing file is a no-op. Returns whether
// anything was removed.
func RemovePathLine(rcPath, dir string) (bool, error) {
	data, err := os.ReadFile(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == markerComment {
			removed = true
			continue
		}
		if !strings.HasPrefix(trimmed, "#") && trimmed != "" && strings.Contains(trimmed, dir) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}

	if err := writeRCFileAtomic(rcPath, []byte(strings.Join(kept, "\n"))); err != nil {
		return false, err
	}
	return true, nil
}

// ManualInstruction returns the line the user should add themselves when
// automatic integration is declined or fails.
func ManualInstruction(dir string, shell ShellType) string {
	return PathLine(dir, shell)
}

func writeRCFileAtomic(rcPath string, content []byte) error {
	dir := filepath.Dir(rcPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(rcPath)+".tmp.*")
	if err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create temp file", Cause: err}
	}
	tmpPath := tmp.Name()

	// Preserve the original file's mode when it exists.
	mode := os.FileMode(0644)
	if info, err := os.Stat(rcPath); err == nil {
		mode = info.Mode().Perm()
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &RCFileError{Path: rcPath, Message: "failed to write temp file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &RCFileError{Path: rcPath, Message: "failed to close temp file", Cause: err}
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return &RCFileError{Path: rcPath, Message: "failed to set permissions", Cause: err}
	}
	if err := os.Rename(tmpPath, rcPath); err != nil {
		os.Remove(tmpPath)
		return &RCFileError{Path: rcPath, Message: "failed to replace file", Cause: err}
	}
	return nil
}
