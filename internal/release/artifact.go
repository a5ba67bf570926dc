package release

import (
	"fmt"
	"strings"

	"github.com/meldoc-io/meldoc-cli/internal/platform"
)

const (
	// DefaultDownloadBase is where release archives are published.
	DefaultDownloadBase = "https://github.com/meldoc-io/meldoc/releases/download"

	// ChecksumManifest is the per-release SHA-256 manifest filename. Its
	// detached signature, when published, is the manifest name plus
	// SignatureSuffix.
	ChecksumManifest = "SHA256SUMS"
	SignatureSuffix  = ".asc"
)

// Artifact describes one downloadable release archive and its verification
// companions. All fields are computed deterministically from tool name,
// version, and platform tag; an Artifact is never mutated after construction.
type Artifact struct {
	Filename     string
	DownloadURL  string
	ChecksumURL  string
	SignatureURL string
}

// BuildArtifact constructs the artifact descriptor for one tool release on
// one platform. The archive filename uses the bare numeric version
// ("meldoc-1.2.3-linux-amd64.tar.gz"); the URL path uses the v-prefixed tag.
func BuildArtifact(baseURL, tool string, version Version, tag platform.Tag) Artifact {
	filename := fmt.Sprintf("%s-%s-%s-%s%s", tool, version.Numeric, tag.OS, tag.Arch, tag.ArchiveExt())
	releaseBase := fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), version.Tag)

	return Artifact{
		Filename:     filename,
		DownloadURL:  releaseBase + "/" + filename,
		ChecksumURL:  releaseBase + "/" + ChecksumManifest,
		SignatureURL: releaseBase + "/" + ChecksumManifest + SignatureSuffix,
	}
}
