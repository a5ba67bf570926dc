package binary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // maintained fork
)

// errChecksumNotFound reports a manifest without an entry for our artifact.
// Unlike a digest mismatch it is not fatal: verification is skipped with a
// warning.
var errChecksumNotFound = errors.New("checksum entry not found")

// Verifier checks downloaded artifacts against the release checksum manifest
// and, when a keyring is available, checks the manifest's own detached GPG
// signature.
type Verifier struct{}

// NewVerifier creates a new verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifySHA256 compares the artifact's SHA-256 digest against the manifest
// entry matching its filename. A present-but-disagreeing entry returns
// ErrChecksumMismatch; a missing entry returns errChecksumNotFound so the
// caller can downgrade to a warning.
func (v *Verifier) VerifySHA256(artifactPath, manifestPath string) error {
	expected, err := findChecksum(manifestPath, filepath.Base(artifactPath))
	if err != nil {
		return err
	}

	actual, err := calculateSHA256(artifactPath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w for %s:\nexpected: %s\nactual:   %s",
			ErrChecksumMismatch, filepath.Base(artifactPath), expected, actual)
	}

	return nil
}

// VerifyManifestSignature checks the manifest's detached GPG signature
// against a public keyring. Both armored and binary signatures are accepted.
func (v *Verifier) VerifyManifestSignature(manifestPath, signaturePath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	manifestFile, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer manifestFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, manifestFile, sigFile, nil)
	if err != nil {
		// Not armored; rewind both files and retry as a binary signature.
		if _, serr := manifestFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind manifest: %w", serr)
		}
		if _, serr := sigFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind signature: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, manifestFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring reads a GPG public keyring, armored or binary.
func loadKeyring(keyringPath string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, serr := keyringFile.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 calculates the SHA-256 digest of a file.
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum scans a manifest for the record matching filename. The format
// is one record per line, "<hex-digest>  <filename>", whitespace-separated.
func findChecksum(manifestPath, filename string) (string, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return "", fmt.Errorf("open checksum manifest: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		// Some manifests record paths; compare the basename too.
		recorded := parts[1]
		if recorded == filename || filepath.Base(recorded) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum manifest: %w", err)
	}

	return "", fmt.Errorf("%w: no entry for %s", errChecksumNotFound, filename)
}
