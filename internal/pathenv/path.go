package pathenv

import (
	"path/filepath"
	"strings"
)

// OnPath reports whether dir already appears in pathVar, a PATH-style list
// of directories. Entries are cleaned before comparison so trailing
// separators do not defeat the check. Windows callers pass
// caseInsensitive=true.
func OnPath(dir, pathVar string, caseInsensitive bool) bool {
	want := filepath.Clean(dir)
	if caseInsensitive {
		want = strings.ToLower(want)
	}

	for _, entry := range filepath.SplitList(pathVar) {
		if entry == "" {
			continue
		}
		got := filepath.Clean(entry)
		if caseInsensitive {
			got = strings.ToLower(got)
		}
		if got == want {
			return true
		}
	}
	return false
}
