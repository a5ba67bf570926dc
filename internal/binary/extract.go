package binary

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extractor unpacks release archives into a scratch directory.
type Extractor struct{}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks an archive based on its filename extension. Unix releases
// ship as .tar.gz, Windows releases as .zip.
func (e *Extractor) Extract(archivePath, destDir string) error {
	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		return e.ExtractTarGz(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".zip"):
		return e.ExtractZip(archivePath, destDir)
	default:
		return fmt.Errorf("%w: unrecognized archive format: %s", ErrExtractionFailed, filepath.Base(archivePath))
	}
}

// ExtractTarGz extracts a .tar.gz archive to a destination directory.
func (e *Extractor) ExtractTarGz(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %v", ErrExtractionFailed, err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("%w: create gzip reader: %v", ErrExtractionFailed, err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: create dest dir: %v", ErrExtractionFailed, err)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: read tar header: %v", ErrExtractionFailed, err)
		}

		target, err := securePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: create directory %s: %v", ErrExtractionFailed, target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("%w: create parent dir for %s: %v", ErrExtractionFailed, target, err)
			}

			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("%w: create file %s: %v", ErrExtractionFailed, target, err)
			}

			if _, err := io.Copy(outFile, tarReader); err != nil {
				outFile.Close()
				return fmt.Errorf("%w: write file %s: %v", ErrExtractionFailed, target, err)
			}
			outFile.Close()

		default:
			// Symlinks, devices, and the rest have no business in a release
			// archive; skip them.
			continue
		}
	}

	return nil
}

// ExtractZip extracts a .zip archive to a destination directory.
func (e *Extractor) ExtractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %v", ErrExtractionFailed, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: create dest dir: %v", ErrExtractionFailed, err)
	}

	for _, file := range reader.File {
		target, err := securePath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: create directory %s: %v", ErrExtractionFailed, target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("%w: create parent dir for %s: %v", ErrExtractionFailed, target, err)
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("%w: open entry %s: %v", ErrExtractionFailed, file.Name, err)
		}

		outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			src.Close()
			return fmt.Errorf("%w: create file %s: %v", ErrExtractionFailed, target, err)
		}

		if _, err := io.Copy(outFile, src); err != nil {
			outFile.Close()
			src.Close()
			return fmt.Errorf("%w: write file %s: %v", ErrExtractionFailed, target, err)
		}
		outFile.Close()
		src.Close()
	}

	return nil
}

// securePath joins an archive entry name onto destDir and rejects entries
// that would escape it (path traversal). An entry that cleans to the
// destination root itself ("./", common in tarballs built from a directory)
// is benign and maps to destDir.
func securePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	clean := filepath.Clean(destDir)
	if target == clean {
		return target, nil
	}
	if !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: illegal entry path: %s", ErrExtractionFailed, name)
	}
	return target, nil
}
