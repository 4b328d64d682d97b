// Package blueprint orchestrates provisioning of a named blueprint bundle:
// fetch and install the application archive, fetch and stage the
// knowledge-base archive, then load every contained index into the index host.
package blueprint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dialogforge/workbench/internal/archive"
	"github.com/dialogforge/workbench/internal/fetch"
	"github.com/dialogforge/workbench/internal/index"
	"github.com/dialogforge/workbench/internal/infrastructure/logging"
	"github.com/dialogforge/workbench/internal/registry"
	"github.com/dialogforge/workbench/internal/shared/paths"
	"github.com/dialogforge/workbench/internal/shared/types"
)

// MissingIndexHostError reports that no index host was available. There is no
// safe default remote index endpoint, so this cannot be papered over.
type MissingIndexHostError struct{}

func (*MissingIndexHostError) Error() string {
	return "no index host: pass one explicitly or set WORKBENCH_INDEX_HOST"
}

// Options are per-provision overrides. Zero values fall back to defaults:
// AppPath to <cwd>/<name>, IndexHost to the configured environment setting.
type Options struct {
	AppPath   string
	IndexHost string
}

// Provisioner sequences the provisioning pipeline. Each invocation is a
// linear, synchronous run; concurrent invocations for the same blueprint are
// not coordinated beyond the cache directory creation race being benign.
type Provisioner struct {
	fetcher    *fetch.Fetcher
	installer  *archive.Installer
	dispatcher *index.Dispatcher
	cacheRoot  string
	indexHost  string // default from configuration, may be empty
	log        *logging.Logger
}

// NewProvisioner creates a Provisioner. defaultIndexHost may be empty, in
// which case every provision must pass an explicit host.
func NewProvisioner(
	fetcher *fetch.Fetcher,
	installer *archive.Installer,
	dispatcher *index.Dispatcher,
	cacheRoot string,
	defaultIndexHost string,
	log *logging.Logger,
) *Provisioner {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provisioner{
		fetcher:    fetcher,
		installer:  installer,
		dispatcher: dispatcher,
		cacheRoot:  cacheRoot,
		indexHost:  defaultIndexHost,
		log:        log,
	}
}

// Provision sets up the whole bundle and returns the resolved application
// path. Any step failure aborts the rest; there is no rollback, because a
// re-run is cheap once archives are cached.
func (p *Provisioner) Provision(ctx context.Context, name string, opts Options) (string, error) {
	if err := registry.Validate(name); err != nil {
		return "", err
	}

	appPath, err := p.SetupApp(ctx, name, opts.AppPath)
	if err != nil {
		return "", err
	}

	if err := p.SetupKB(ctx, name, appPath, opts.IndexHost); err != nil {
		return "", err
	}
	return appPath, nil
}

// SetupApp fetches and installs the application archive. appPath may be empty,
// defaulting to a directory named after the blueprint under the current
// working directory. Returns the resolved absolute path.
func (p *Provisioner) SetupApp(ctx context.Context, name, appPath string) (string, error) {
	if err := registry.Validate(name); err != nil {
		return "", err
	}

	appPath, err := resolveAppPath(name, appPath)
	if err != nil {
		return "", err
	}

	archivePath, err := p.fetcher.Fetch(ctx, name, types.ArchiveApp)
	if err != nil {
		return "", err
	}
	if err := p.installer.Install(archivePath, appPath); err != nil {
		return "", err
	}

	p.log.Info("Application installed",
		zap.String("blueprint", name),
		zap.String("path", appPath))
	return appPath, nil
}

// SetupKB fetches the knowledge-base archive, stages it under the cache
// directory, and loads every index into the index host. The host must be
// resolvable before any knowledge-base I/O happens.
func (p *Provisioner) SetupKB(ctx context.Context, name, appPath, indexHost string) error {
	if err := registry.Validate(name); err != nil {
		return err
	}

	appPath, err := resolveAppPath(name, appPath)
	if err != nil {
		return err
	}

	if indexHost == "" {
		indexHost = p.indexHost
	}
	if indexHost == "" {
		return &MissingIndexHostError{}
	}

	archivePath, err := p.fetcher.Fetch(ctx, name, types.ArchiveKB)
	if err != nil {
		return err
	}

	stagingDir := paths.StagingDir(p.cacheRoot, name)
	if err := p.installer.Install(archivePath, stagingDir); err != nil {
		return err
	}

	appName := filepath.Base(appPath)
	if err := p.dispatcher.LoadAll(ctx, stagingDir, appName, indexHost); err != nil {
		return err
	}

	p.log.Info("Knowledge base loaded",
		zap.String("blueprint", name),
		zap.String("app", appName),
		zap.String("host", indexHost))
	return nil
}

// resolveAppPath applies the default (<cwd>/<name>) and makes the result
// absolute.
func resolveAppPath(name, appPath string) (string, error) {
	if appPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		appPath = filepath.Join(cwd, name)
	}
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return "", fmt.Errorf("resolve app path %s: %w", appPath, err)
	}
	return abs, nil
}
