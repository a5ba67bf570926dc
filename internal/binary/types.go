package binary

import (
	"errors"

	"github.com/meldoc-io/meldoc-cli/internal/platform"
	"github.com/meldoc-io/meldoc-cli/internal/release"
)

// Fatal installation errors. Each aborts the run immediately; none is
// retried automatically.
var (
	// ErrDownloadFailed indicates the artifact transfer failed or returned
	// empty content.
	ErrDownloadFailed = errors.New("download failed")
	// ErrChecksumMismatch indicates a manifest entry was found and its digest
	// disagrees with the downloaded bytes.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrExtractionFailed indicates the archive could not be unpacked.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrBinaryNotFound indicates no matching executable was located in the
	// extracted archive.
	ErrBinaryNotFound = errors.New("binary not found in archive")
	// ErrInstallFailed indicates the copy/rename into the target directory
	// failed even after elevation.
	ErrInstallFailed = errors.New("install failed")
)

// VerificationMethod records how (or whether) the artifact was verified.
type VerificationMethod int

const (
	// VerificationNone indicates verification was skipped because the
	// manifest or its entry for this artifact was unavailable.
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates the artifact matched the manifest digest.
	VerificationSHA256
	// VerificationSigned indicates the manifest's GPG signature was also
	// verified before the digest comparison.
	VerificationSigned
)

// String returns the string representation of the verification method.
func (v VerificationMethod) String() string {
	switch v {
	case VerificationSHA256:
		return "SHA256"
	case VerificationSigned:
		return "SHA256+GPG"
	case VerificationNone:
		return "none"
	default:
		return "unknown"
	}
}

// InstallOptions configures one installation run.
type InstallOptions struct {
	Artifact release.Artifact
	Version  release.Version
	Tag      platform.Tag
	// DestDir is the target installation directory.
	DestDir string
	// DestName is the installed executable's filename (e.g. "meldoc" or
	// "meldoc.exe").
	DestName string
	// Force allows overwriting an existing installation.
	Force bool
	// Elevate permits a privileged copy/rename when DestDir is unwritable.
	Elevate bool
	// KeyringPath, when non-empty, points at a GPG public keyring used to
	// verify the checksum manifest's detached signature.
	KeyringPath string
}

// InstallResult describes a completed (or benignly skipped) installation.
type InstallResult struct {
	// Path is the installed executable's final location.
	Path string
	// AlreadyInstalled is set when a pre-existing installation blocked the
	// run and Force was not given. This is a safety policy, not an error:
	// the process exits zero.
	AlreadyInstalled bool
	// Verified records the verification method that succeeded.
	Verified VerificationMethod
	// Elevated is set when the final copy/rename ran with elevated rights.
	Elevated bool
	// Warnings collects non-fatal conditions (skipped verification and the
	// like) for the caller to surface.
	Warnings []string
}
