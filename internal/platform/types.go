// Package platform provides host platform detection for the meldoc installer.
//
// Release artifacts are published per {os, arch} pair, so installation starts
// by classifying the host into one of the supported canonical tags. On Linux
// the detector additionally reports distribution details via gopsutil; those
// are informational only and never affect artifact selection.
package platform

import "context"

// Supported operating systems and architectures. Artifacts exist only for
// combinations of these values; anything else is a hard failure.
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "windows"

	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// Linux distribution family constants, used for display only.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// Tag is the canonical {os, arch} pair used to name release artifacts.
// A Tag is immutable once detected.
type Tag struct {
	OS   string // "linux", "darwin", "windows"
	Arch string // "amd64", "arm64"
}

// String returns the tag in the "<os>-<arch>" form used in artifact filenames.
func (t Tag) String() string {
	return t.OS + "-" + t.Arch
}

// IsWindows returns true if the tag targets Windows.
func (t Tag) IsWindows() bool {
	return t.OS == OSWindows
}

// ArchiveExt returns the archive extension used for this platform's
// artifacts: ".zip" on Windows, ".tar.gz" everywhere else.
func (t Tag) ArchiveExt() string {
	if t.IsWindows() {
		return ".zip"
	}
	return ".tar.gz"
}

// ExeSuffix returns the executable filename suffix for this platform.
func (t Tag) ExeSuffix() string {
	if t.IsWindows() {
		return ".exe"
	}
	return ""
}

// Info contains platform detection results: the canonical tag plus optional
// Linux distribution enrichment.
type Info struct {
	Tag
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// Distro contains Linux distribution information. Nil on non-Linux hosts.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux host with
// successful distro detection, nil otherwise.
func (i *Info) GetDistro() *Distro {
	if i.OS != OSLinux || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
