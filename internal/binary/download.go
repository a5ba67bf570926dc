package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds each download request.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "meldoc-install/1.0"
)

// Downloader fetches release files over HTTP. Downloads are single-attempt:
// a failed transfer is reported to the user for a manual re-run rather than
// retried silently.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new downloader.
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// DownloadToFile downloads a URL to destPath. The transfer goes through a
// temporary file that is renamed into place only on success, so destPath
// never holds a partial download. An empty response body counts as a failed
// download.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request for %s: %v", ErrDownloadFailed, url, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrDownloadFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetch %s: unexpected status %d", ErrDownloadFailed, url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("%w: create dest dir: %v", ErrDownloadFailed, err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrDownloadFailed, err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: transfer %s: %v", ErrDownloadFailed, url, err)
	}

	// A zero-byte artifact is indistinguishable from a broken mirror; treat
	// it the same as a failed transfer.
	if written == 0 {
		return fmt.Errorf("%w: %s returned empty content", ErrDownloadFailed, url)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", ErrDownloadFailed, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("%w: rename temp file: %v", ErrDownloadFailed, err)
	}

	cleanupNeeded = false
	return nil
}
