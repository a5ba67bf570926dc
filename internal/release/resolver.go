package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds each version lookup request.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "meldoc-install/1.0"

	// maxPointerSize bounds the LATEST pointer body; a version string is a
	// handful of bytes, anything larger is a misconfigured endpoint.
	maxPointerSize = 4096
)

// ErrVersionLookupFailed indicates the version source was unreachable or
// returned an empty or malformed answer. There is no retry; the caller is
// told to re-run or pass an explicit --version.
var ErrVersionLookupFailed = errors.New("version lookup failed")

// Resolver resolves the "latest" version from a remote source.
type Resolver interface {
	Resolve(ctx context.Context) (Version, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

func doGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// StaticResolver resolves the latest version from a plain-text pointer file:
// the response body, trimmed of whitespace, is the version string.
type StaticResolver struct {
	URL    string
	client *http.Client
}

// NewStaticResolver creates a resolver for a static LATEST pointer URL.
func NewStaticResolver(url string) *StaticResolver {
	return &StaticResolver{
		URL:    url,
		client: newHTTPClient(),
	}
}

// Resolve fetches the pointer file and parses its body as a version.
func (r *StaticResolver) Resolve(ctx context.Context) (Version, error) {
	resp, err := doGet(ctx, r.client, r.URL)
	if err != nil {
		return Version{}, fmt.Errorf("%w: fetch %s: %v", ErrVersionLookupFailed, r.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Version{}, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrVersionLookupFailed, r.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPointerSize))
	if err != nil {
		return Version{}, fmt.Errorf("%w: read %s: %v", ErrVersionLookupFailed, r.URL, err)
	}

	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return Version{}, fmt.Errorf("%w: %s returned an empty body", ErrVersionLookupFailed, r.URL)
	}

	version, err := Parse(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %s returned %q: %v", ErrVersionLookupFailed, r.URL, raw, err)
	}

	return version, nil
}

// GitHubResolver resolves the latest version from the GitHub Releases API.
type GitHubResolver struct {
	// APIBase is the API root, overridable for tests (default
	// "https://api.github.com").
	APIBase string
	Owner   string
	Repo    string
	client  *http.Client
}

// NewGitHubResolver creates a resolver for a GitHub repository's latest
// release.
func NewGitHubResolver(owner, repo string) *GitHubResolver {
	return &GitHubResolver{
		APIBase: "https://api.github.com",
		Owner:   owner,
		Repo:    repo,
		client:  newHTTPClient(),
	}
}

// latestRelease is the subset of the release metadata document we consume.
type latestRelease struct {
	TagName string `json:"tag_name"`
}

// Resolve fetches the latest-release metadata and extracts its tag.
func (r *GitHubResolver) Resolve(ctx context.Context) (Version, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(r.APIBase, "/"), r.Owner, r.Repo)

	resp, err := doGet(ctx, r.client, url)
	if err != nil {
		return Version{}, fmt.Errorf("%w: fetch %s: %v", ErrVersionLookupFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Version{}, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrVersionLookupFailed, url, resp.StatusCode)
	}

	var rel latestRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Version{}, fmt.Errorf("%w: decode %s: %v", ErrVersionLookupFailed, url, err)
	}

	if strings.TrimSpace(rel.TagName) == "" {
		return Version{}, fmt.Errorf("%w: %s has no tag_name field", ErrVersionLookupFailed, url)
	}

	version, err := Parse(rel.TagName)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %s returned tag %q: %v", ErrVersionLookupFailed, url, rel.TagName, err)
	}

	return version, nil
}
