package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/go-github/v57/github"

	"github.com/alexhub/hub-installer/internal/config"
	"github.com/alexhub/hub-installer/internal/logger"
	"github.com/alexhub/hub-installer/internal/manifest"
	"github.com/alexhub/hub-installer/internal/progress"
)

// errBadHTTPStatus is returned when a download endpoint answers with a non-200 status.
var errBadHTTPStatus = errors.New("unexpected http status")

// Client talks to the three remote collaborators: the repository metadata
// API, the branch archive endpoint, and the raw-content endpoint.
type Client struct {
	cfg *config.Config
	// api is the GitHub client used for the connectivity probe and the
	// manifest fetch. Its calls are bounded by the configured timeout.
	api *github.Client
	// downloader performs streaming file downloads. It carries no overall
	// timeout; large archives are cancelled through the context instead.
	downloader *http.Client
}

// NewClient builds a client from the run configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	baseURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}

	api := github.NewClient(&http.Client{Timeout: cfg.Timeout})
	api.BaseURL = baseURL

	return &Client{
		cfg:        cfg,
		api:        api,
		downloader: &http.Client{},
	}, nil
}

// CheckConnectivity performs a bounded-time probe against the metadata API.
// Any error, including a timeout, is reported as "no connectivity".
func (c *Client) CheckConnectivity(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if _, _, err := c.api.Zen(probeCtx); err != nil {
		logger.DebugKV(ctx, "Connectivity probe failed", "error", err)
		return false
	}

	return true
}

// FetchManifest downloads and parses the release manifest from the
// repository contents API. The base64 envelope is unwrapped by the API
// client before parsing.
func (c *Client) FetchManifest(ctx context.Context) (*manifest.Manifest, error) {
	opts := &github.RepositoryContentGetOptions{Ref: c.cfg.Branch}

	fileContent, _, _, err := c.api.Repositories.GetContents(
		ctx, c.cfg.RepoOwner, c.cfg.RepoName, config.ManifestFilename, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	body, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode manifest content: %w", err)
	}

	m, err := manifest.Parse([]byte(body))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// DownloadArchive streams the branch snapshot archive into destPath,
// reporting byte-level progress while it downloads.
func (c *Client) DownloadArchive(ctx context.Context, destPath string) error {
	_, err := c.downloadFile(ctx, c.cfg.ArchiveURL(), destPath, "application bundle")
	return err
}

// DownloadRaw streams a single repository file into destPath and returns
// the number of bytes written.
func (c *Client) DownloadRaw(ctx context.Context, relativePath, destPath string) (int64, error) {
	return c.downloadFile(ctx, c.cfg.RawFileURL(relativePath), destPath, relativePath)
}

// downloadFile fetches url into destPath. Parent directories are created
// as needed so manifest entries may contain nested paths.
func (c *Client) downloadFile(ctx context.Context, fileURL, destPath, label string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	response, err := c.downloader.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", label, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s, %s: %w", fileURL, response.Status, errBadHTTPStatus)
	}

	if err = os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("create destination directory: %w", err)
	}

	outputFile, err := os.Create(filepath.Clean(destPath))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", destPath, err)
	}

	defer func() {
		_ = outputFile.Close()
	}()

	var destination io.Writer = outputFile

	if progress.ShouldShow() {
		progressWriter := progress.NewWriter(outputFile, label, response.ContentLength, os.Stdout)
		defer progressWriter.Finish()

		destination = progressWriter
	}

	written, err := io.Copy(destination, response.Body)
	if err != nil {
		return written, fmt.Errorf("write %s: %w", destPath, err)
	}

	logger.DebugKV(ctx, "Downloaded file", "url", fileURL, "bytes", written)

	return written, nil
}
