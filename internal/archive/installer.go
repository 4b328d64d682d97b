// Package archive installs fetched blueprint archives into destination trees.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/dialogforge/workbench/internal/infrastructure/logging"
)

// UnsafeEntryError reports an archive entry whose resolved path would escape
// the destination directory.
type UnsafeEntryError struct {
	Entry string
}

func (e *UnsafeEntryError) Error() string {
	return fmt.Sprintf("unsafe archive entry escapes destination: %q", e.Entry)
}

// Installer extracts gzip-compressed tarballs.
type Installer struct {
	log *logging.Logger
}

// NewInstaller creates an Installer.
func NewInstaller(log *logging.Logger) *Installer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Installer{log: log}
}

// Install extracts the full contents of the archive at archivePath into
// destDir, creating it if absent. Any entry failure aborts the extraction;
// files written before the failure may remain and cleanup is the caller's
// call. Entries that would resolve outside destDir fail with
// UnsafeEntryError before anything is written for them.
func (i *Installer) Install(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("read gzip archive %s: %w", archivePath, err)
	}
	defer gzReader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", destDir, err)
	}

	cleanDest := filepath.Clean(destDir)
	tarReader := tar.NewReader(gzReader)
	fileCount := 0

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive %s: %w", archivePath, err)
		}

		destPath := filepath.Join(cleanDest, header.Name)
		if destPath != cleanDest &&
			!strings.HasPrefix(destPath, cleanDest+string(os.PathSeparator)) {
			return &UnsafeEntryError{Entry: header.Name}
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", destPath, err)
			}
		case tar.TypeReg:
			if err := extractFile(tarReader, destPath, header.FileInfo().Mode()); err != nil {
				return fmt.Errorf("extract %s: %w", header.Name, err)
			}
			fileCount++
		default:
			// Blueprint archives only carry directories and regular files;
			// anything else (links, devices) is not installed.
			i.log.Warn("Skipping unsupported archive entry",
				zap.String("entry", header.Name),
				zap.Uint8("type", header.Typeflag))
		}
	}

	i.log.Info("Installed archive",
		zap.String("archive", archivePath),
		zap.String("destination", destDir),
		zap.Int("files", fileCount))
	return nil
}

func extractFile(r io.Reader, destPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
