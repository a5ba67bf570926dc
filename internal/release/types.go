// Package release resolves meldoc release versions and constructs the
// deterministic artifact descriptors used to download them.
//
// Two resolution strategies exist: a static LATEST pointer file served next
// to the release archives, and the GitHub Releases API. An explicitly
// requested version bypasses the network entirely.
package release

import (
	"fmt"
	"strings"
)

// Version carries both forms of a resolved version: the "v"-prefixed tag is
// the canonical identifier used in download URL paths, the bare numeric form
// appears only inside artifact filenames.
type Version struct {
	Tag     string // e.g. "v1.2.3"
	Numeric string // e.g. "1.2.3"
}

// Parse normalizes a version string into both forms. A leading "v" is
// recognized and stripped for the numeric form; parsing is idempotent, so
// "v1.2.3" and "1.2.3" produce identical results.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	numeric := strings.TrimPrefix(trimmed, "v")
	if numeric == "" {
		return Version{}, fmt.Errorf("invalid version string %q", raw)
	}

	return Version{
		Tag:     "v" + numeric,
		Numeric: numeric,
	}, nil
}

// String returns the canonical tag form.
func (v Version) String() string {
	return v.Tag
}
