// Package fetch decides fetch-vs-reuse for cached blueprint archives and
// downloads them on demand.
//
// The freshness protocol is stateless: no catalog is kept. Each fetch issues a
// metadata-only probe against the remote store and compares the advertised
// modification time with the cached file's mtime. A strictly newer local file
// is reused; anything else, equality included, forces a download. The equality
// bias is deliberate: when the two clocks agree exactly there is no way to
// tell which copy is stale, and freshness wins over efficiency.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/dialogforge/workbench/internal/infrastructure/logging"
	"github.com/dialogforge/workbench/internal/shared/paths"
	"github.com/dialogforge/workbench/internal/shared/types"
)

// Fetcher fetches blueprint archives into the local cache.
type Fetcher struct {
	client    *Client
	baseURL   string
	cacheRoot string
	parser    TimestampParser
	log       *logging.Logger
}

// NewFetcher creates a Fetcher over the given store base URL and cache root.
func NewFetcher(client *Client, baseURL, cacheRoot string, log *logging.Logger) *Fetcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Fetcher{
		client:    client,
		baseURL:   baseURL,
		cacheRoot: cacheRoot,
		parser:    HTTPDateParser{},
		log:       log,
	}
}

// SetTimestampParser replaces the probe header decoder.
func (f *Fetcher) SetTimestampParser(p TimestampParser) {
	f.parser = p
}

// Fetch returns the local path of a valid archive for (name, kind),
// downloading only when the cached copy is not strictly newer than remote.
// It never retries; transient remote failures surface immediately.
func (f *Fetcher) Fetch(ctx context.Context, name string, kind types.ArchiveKind) (string, error) {
	filename, err := kind.Filename()
	if err != nil {
		return "", err
	}

	// Creation races with concurrent fetchers are benign: MkdirAll treats an
	// existing directory as success.
	dir := paths.BlueprintDir(f.cacheRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &CacheDirError{Name: name, Dir: dir, Err: err}
	}

	localPath := paths.ArchivePath(f.cacheRoot, name, filename)
	remoteURL, err := url.JoinPath(f.baseURL, name, filename)
	if err != nil {
		return "", &ProbeError{Name: name, Kind: kind, URL: f.baseURL, Err: err}
	}

	remoteModified, err := f.probe(ctx, name, kind, remoteURL)
	if err != nil {
		return "", err
	}

	// Missing local file reads as the zero time, which guarantees a download.
	var localModified time.Time
	if st, statErr := os.Stat(localPath); statErr == nil {
		localModified = st.ModTime()
	}

	if !localModified.IsZero() && remoteModified.Before(localModified) {
		f.log.Info("Using cached archive",
			zap.String("blueprint", name),
			zap.String("kind", kind.String()),
			zap.String("path", localPath))
		return localPath, nil
	}

	f.log.Info("Fetching archive",
		zap.String("blueprint", name),
		zap.String("kind", kind.String()),
		zap.String("url", remoteURL))

	if err := f.download(ctx, name, kind, remoteURL, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// probe issues a metadata-only HEAD request and decodes the modification time.
func (f *Fetcher) probe(ctx context.Context, name string, kind types.ArchiveKind, remoteURL string) (time.Time, error) {
	req, err := f.client.Request(ctx)
	if err != nil {
		return time.Time{}, &ProbeError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}

	resp, err := req.Head(remoteURL)
	if err != nil {
		return time.Time{}, &ProbeError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	if !resp.IsSuccess() {
		return time.Time{}, &ProbeError{
			Name: name, Kind: kind, URL: remoteURL,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	modified, err := f.parser.Parse(resp.Header())
	if err != nil {
		return time.Time{}, &ProbeError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	return modified, nil
}

// download writes the remote archive next to the target as a partial file and
// renames it into place only on full success, so an interrupted download never
// masquerades as a complete archive to a later freshness check. The partial
// name is unique per attempt; concurrent fetches of the same entry each rename
// their own file and the last rename wins.
func (f *Fetcher) download(ctx context.Context, name string, kind types.ArchiveKind, remoteURL, localPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(localPath), filepath.Base(localPath)+".partial-*")
	if err != nil {
		return &DownloadError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	partial := tmp.Name()
	tmp.Close()

	req, err := f.client.Request(ctx)
	if err != nil {
		os.Remove(partial)
		return &DownloadError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	req.SetOutput(partial)

	resp, err := req.Get(remoteURL)
	if err != nil {
		os.Remove(partial)
		return &DownloadError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	if !resp.IsSuccess() {
		os.Remove(partial)
		return &DownloadError{
			Name: name, Kind: kind, URL: remoteURL,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	if err := os.Rename(partial, localPath); err != nil {
		os.Remove(partial)
		return &DownloadError{Name: name, Kind: kind, URL: remoteURL, Err: err}
	}
	return nil
}
