package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meldoc-io/meldoc-cli/internal/release"
)

// Manager orchestrates the download → verify → extract → install sequence.
// All intermediate files live in the scratch directory owned by the caller;
// the target directory is touched only by the final atomic rename.
type Manager struct {
	scratchDir string
	downloader *Downloader
	verifier   *Verifier
	extractor  *Extractor
	installer  *Installer
}

// NewManager creates a manager whose intermediate files live in scratchDir.
func NewManager(scratchDir string) *Manager {
	return &Manager{
		scratchDir: scratchDir,
		downloader: NewDownloader(),
		verifier:   NewVerifier(),
		extractor:  NewExtractor(),
		installer:  NewInstaller(),
	}
}

// Install runs the full installation sequence for one artifact.
//
// A pre-existing installation without Force is a benign no-op, reported via
// InstallResult.AlreadyInstalled. Checksum verification is best-effort: an
// unreachable manifest or a manifest without our entry downgrades to a
// warning, while a disagreeing entry aborts before the target directory is
// touched.
func (m *Manager) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	result := &InstallResult{}

	destPath := filepath.Join(opts.DestDir, opts.DestName)
	if _, err := os.Stat(destPath); err == nil && !opts.Force {
		result.Path = destPath
		result.AlreadyInstalled = true
		return result, nil
	}

	// Step 1: download the archive into scratch.
	archivePath := filepath.Join(m.scratchDir, opts.Artifact.Filename)
	if err := m.downloader.DownloadToFile(ctx, opts.Artifact.DownloadURL, archivePath); err != nil {
		return nil, err
	}

	// Step 2: verify, best-effort.
	verified, warnings, err := m.verify(ctx, opts, archivePath)
	if err != nil {
		return nil, err
	}
	result.Verified = verified
	result.Warnings = warnings

	// Step 3: extract into scratch.
	extractDir := filepath.Join(m.scratchDir, "extract")
	if err := m.extractor.Extract(archivePath, extractDir); err != nil {
		return nil, err
	}

	// Step 4: locate the executable.
	binPath, err := LocateBinary(extractDir, opts.DestName)
	if err != nil {
		return nil, err
	}

	// Step 5: atomic install.
	executable := !opts.Tag.IsWindows()
	installed, elevated, err := m.installer.Install(binPath, opts.DestDir, opts.DestName, executable, opts.Elevate)
	if err != nil {
		return nil, err
	}

	result.Path = installed
	result.Elevated = elevated
	return result, nil
}

// verify fetches the checksum manifest and compares digests. Manifest or
// entry absence must not block installation of an otherwise-trusted
// release; only a present-and-disagreeing digest is fatal.
func (m *Manager) verify(ctx context.Context, opts InstallOptions, archivePath string) (VerificationMethod, []string, error) {
	var warnings []string

	manifestPath := filepath.Join(m.scratchDir, release.ChecksumManifest)
	if err := m.downloader.DownloadToFile(ctx, opts.Artifact.ChecksumURL, manifestPath); err != nil {
		if ctx.Err() != nil {
			return VerificationNone, nil, err
		}
		warnings = append(warnings,
			fmt.Sprintf("checksum manifest unavailable (%s); proceeding without verification", opts.Artifact.ChecksumURL))
		return VerificationNone, warnings, nil
	}

	method := VerificationSHA256

	// Manifest signature check, only when a keyring was provided.
	if opts.KeyringPath != "" && opts.Artifact.SignatureURL != "" {
		sigPath := manifestPath + release.SignatureSuffix
		if err := m.downloader.DownloadToFile(ctx, opts.Artifact.SignatureURL, sigPath); err != nil {
			if ctx.Err() != nil {
				return VerificationNone, nil, err
			}
			warnings = append(warnings, "manifest signature unavailable; falling back to plain checksum verification")
		} else if err := m.verifier.VerifyManifestSignature(manifestPath, sigPath, opts.KeyringPath); err != nil {
			// A signature that exists but does not verify is suspicious
			// enough to stop.
			return VerificationNone, nil, fmt.Errorf("%w: manifest signature invalid: %v", ErrChecksumMismatch, err)
		} else {
			method = VerificationSigned
		}
	}

	if err := m.verifier.VerifySHA256(archivePath, manifestPath); err != nil {
		if errors.Is(err, errChecksumNotFound) {
			warnings = append(warnings,
				fmt.Sprintf("no checksum entry for %s; proceeding without verification", opts.Artifact.Filename))
			return VerificationNone, warnings, nil
		}
		return VerificationNone, nil, err
	}

	return method, warnings, nil
}
