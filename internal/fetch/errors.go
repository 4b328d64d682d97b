package fetch

import (
	"fmt"

	"github.com/dialogforge/workbench/internal/shared/types"
)

// ProbeError reports a failed metadata probe. Without the probe the freshness
// decision is undefined, so this is always fatal to the fetch.
type ProbeError struct {
	Name string
	Kind types.ArchiveKind
	URL  string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("metadata probe failed for blueprint %q %s archive (%s): %v",
		e.Name, e.Kind, e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// DownloadError reports a failed or incomplete archive download.
type DownloadError struct {
	Name string
	Kind types.ArchiveKind
	URL  string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for blueprint %q %s archive (%s): %v",
		e.Name, e.Kind, e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// CacheDirError reports an unusable local cache directory.
type CacheDirError struct {
	Name string
	Dir  string
	Err  error
}

func (e *CacheDirError) Error() string {
	return fmt.Sprintf("cache directory unavailable for blueprint %q (%s): %v",
		e.Name, e.Dir, e.Err)
}

func (e *CacheDirError) Unwrap() error { return e.Err }
