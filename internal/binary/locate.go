package binary

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxSearchDepth bounds the recursive fallback search. Release archives put
// the executable at the root or one directory down; anything deeper is not
// ours.
const maxSearchDepth = 3

// LocateBinary finds the tool executable inside an extracted archive. It
// checks the direct path first, then falls back to a bounded-depth recursive
// search. Exactly one match is expected; absence is fatal.
func LocateBinary(root, name string) (string, error) {
	direct := filepath.Join(root, name)
	if isRegularFile(direct) {
		return direct, nil
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		if d.IsDir() {
			if entryDepth(root, path) > maxSearchDepth {
				return fs.SkipDir
			}
			return nil
		}

		if d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: search %s: %v", ErrBinaryNotFound, root, err)
	}

	if found == "" {
		return "", fmt.Errorf("%w: no file named %q under %s", ErrBinaryNotFound, name, root)
	}

	return found, nil
}

// entryDepth counts path separators between root and path.
func entryDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
