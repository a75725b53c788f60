package poster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelsort/internal/logging"
	"reelsort/internal/services"
)

const (
	// preferredSize is requested first; the catalog client falls back to the
	// nearest supported size on its own.
	preferredSize = "w500"
	// minPosterBytes guards against error pages served with a 200.
	minPosterBytes  = 1024
	downloadTimeout = 30 * time.Second
)

// URLResolver resolves a catalog poster path to a download URL.
type URLResolver interface {
	PosterURL(ctx context.Context, posterPath, size string) (string, error)
}

// Downloader fetches artwork next to organized media.
type Downloader struct {
	resolver   URLResolver
	httpClient *http.Client
	dryRun     bool
	logger     *slog.Logger
}

// NewDownloader builds a poster downloader.
func NewDownloader(resolver URLResolver, dryRun bool, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Downloader{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: downloadTimeout},
		dryRun:     dryRun,
		logger:     logger,
	}
}

// WithHTTPClient overrides the download client (tests).
func (d *Downloader) WithHTTPClient(client *http.Client) *Downloader {
	if client != nil {
		d.httpClient = client
	}
	return d
}

// TargetPath returns the artwork filename convention for dir: the directory's
// own base name plus a poster suffix.
func TargetPath(dir string, season bool) string {
	suffix := " - poster.jpg"
	if season {
		suffix = " - season poster.jpg"
	}
	return filepath.Join(dir, filepath.Base(dir)+suffix)
}

// Download fetches posterPath into dir using the naming convention from
// TargetPath. An existing poster is left alone. Returns the target path, or
// "" when nothing was written.
func (d *Downloader) Download(ctx context.Context, posterPath, dir string, season bool) (string, error) {
	if strings.TrimSpace(posterPath) == "" {
		return "", nil
	}
	target := TargetPath(dir, season)
	if _, err := os.Stat(target); err == nil {
		d.logger.Debug("poster already present", logging.String("path", target))
		return "", nil
	}
	if d.dryRun {
		d.logger.Info("dry-run: would download poster", logging.String("path", target))
		return target, nil
	}

	url, err := d.resolver.PosterURL(ctx, posterPath, preferredSize)
	if err != nil {
		return "", err
	}
	body, err := d.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "poster", "write", "failed to write poster", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", services.Wrap(services.ErrFilesystem, "poster", "write", "failed to finalize poster", err)
	}
	d.logger.Info("poster downloaded", logging.String("path", target))
	return target, nil
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch", "failed to build poster request", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch", "poster download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch",
			fmt.Sprintf("poster download returned status %d", resp.StatusCode), nil)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch",
			fmt.Sprintf("poster response has content type %q", ct), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch", "failed to read poster body", err)
	}
	if len(body) < minPosterBytes {
		return nil, services.Wrap(services.ErrCatalog, "poster", "fetch",
			fmt.Sprintf("poster body suspiciously small (%d bytes)", len(body)), nil)
	}
	return body, nil
}
