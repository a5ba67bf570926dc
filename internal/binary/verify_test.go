package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // maintained fork
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func digestOf(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestVerifySHA256(t *testing.T) {
	const artifactName = "meldoc-1.2.3-linux-amd64.tar.gz"
	const content = "archive bytes"
	good := digestOf(content)

	tests := []struct {
		name     string
		manifest string
		wantErr  error
	}{
		{
			name:     "matching digest",
			manifest: fmt.Sprintf("%s  %s\n", good, artifactName),
		},
		{
			name:     "mismatching digest",
			manifest: fmt.Sprintf("%064d  %s\n", 0, artifactName),
			wantErr:  ErrChecksumMismatch,
		},
		{
			name:     "entry recorded with path prefix",
			manifest: fmt.Sprintf("%s  dist/%s\n", good, artifactName),
		},
		{
			name:     "no entry for artifact",
			manifest: fmt.Sprintf("%s  some-other-file.tar.gz\n", good),
			wantErr:  errChecksumNotFound,
		},
		{
			name:     "empty manifest",
			manifest: "",
			wantErr:  errChecksumNotFound,
		},
		{
			name: "entry among others",
			manifest: fmt.Sprintf("%064d  meldoc-1.2.3-darwin-arm64.tar.gz\n%s  %s\n%064d  meldoc-1.2.3-windows-amd64.zip\n",
				1, good, artifactName, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			artifactPath := writeFile(t, dir, artifactName, content)
			manifestPath := writeFile(t, dir, "SHA256SUMS", tt.manifest)

			v := NewVerifier()
			err := v.VerifySHA256(artifactPath, manifestPath)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestVerifySHA256CaseInsensitiveDigest(t *testing.T) {
	const artifactName = "meldoc-1.2.3-linux-amd64.tar.gz"
	const content = "archive bytes"

	dir := t.TempDir()
	artifactPath := writeFile(t, dir, artifactName, content)
	upper := ""
	for _, c := range digestOf(content) {
		if c >= 'a' && c <= 'f' {
			c = c - 'a' + 'A'
		}
		upper += string(c)
	}
	manifestPath := writeFile(t, dir, "SHA256SUMS", fmt.Sprintf("%s  %s\n", upper, artifactName))

	v := NewVerifier()
	if err := v.VerifySHA256(artifactPath, manifestPath); err != nil {
		t.Fatalf("uppercase manifest digest should match: %v", err)
	}
}

func TestVerifyManifestSignature(t *testing.T) {
	entity, err := openpgp.NewEntity("Release Signing", "", "release@example.com", nil)
	if err != nil {
		t.Fatalf("create signing entity: %v", err)
	}

	dir := t.TempDir()

	// Public keyring, binary format.
	keyringPath := filepath.Join(dir, "keyring.gpg")
	keyringFile, err := os.Create(keyringPath)
	if err != nil {
		t.Fatalf("create keyring: %v", err)
	}
	if err := entity.Serialize(keyringFile); err != nil {
		t.Fatalf("serialize public key: %v", err)
	}
	keyringFile.Close()

	manifestPath := writeFile(t, dir, "SHA256SUMS", "abc123  meldoc-1.2.3-linux-amd64.tar.gz\n")

	sigPath := filepath.Join(dir, "SHA256SUMS.asc")
	sigFile, err := os.Create(sigPath)
	if err != nil {
		t.Fatalf("create signature file: %v", err)
	}
	manifestFile, err := os.Open(manifestPath)
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	if err := openpgp.DetachSign(sigFile, entity, manifestFile, nil); err != nil {
		t.Fatalf("sign manifest: %v", err)
	}
	manifestFile.Close()
	sigFile.Close()

	v := NewVerifier()

	t.Run("valid signature", func(t *testing.T) {
		if err := v.VerifyManifestSignature(manifestPath, sigPath, keyringPath); err != nil {
			t.Fatalf("expected valid signature, got %v", err)
		}
	})

	t.Run("tampered manifest", func(t *testing.T) {
		tamperedPath := writeFile(t, dir, "SHA256SUMS.tampered", "evil  meldoc-1.2.3-linux-amd64.tar.gz\n")
		if err := v.VerifyManifestSignature(tamperedPath, sigPath, keyringPath); err == nil {
			t.Fatal("expected verification failure for tampered manifest")
		}
	})

	t.Run("wrong keyring", func(t *testing.T) {
		other, err := openpgp.NewEntity("Someone Else", "", "other@example.com", nil)
		if err != nil {
			t.Fatalf("create other entity: %v", err)
		}
		otherPath := filepath.Join(dir, "other.gpg")
		otherFile, err := os.Create(otherPath)
		if err != nil {
			t.Fatalf("create other keyring: %v", err)
		}
		if err := other.Serialize(otherFile); err != nil {
			t.Fatalf("serialize other key: %v", err)
		}
		otherFile.Close()

		if err := v.VerifyManifestSignature(manifestPath, sigPath, otherPath); err == nil {
			t.Fatal("expected verification failure with wrong keyring")
		}
	})

	t.Run("missing keyring file", func(t *testing.T) {
		if err := v.VerifyManifestSignature(manifestPath, sigPath, filepath.Join(dir, "absent.gpg")); err == nil {
			t.Fatal("expected error for missing keyring")
		}
	})
}
