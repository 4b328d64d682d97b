package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dialogforge/workbench/internal/infrastructure/logging"
)

// LoadError aggregates every index load that failed during a dispatch.
type LoadError struct {
	Dir  string
	Errs []error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%d index load(s) failed in %s: %v", len(e.Errs), e.Dir, e.Errs)
}

// Unwrap exposes the individual failures for errors.Is/As.
func (e *LoadError) Unwrap() []error { return e.Errs }

// Dispatcher walks an extracted knowledge-base directory and hands each
// contained file to the loader.
type Dispatcher struct {
	loader Loader
	log    *logging.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(loader Loader, log *logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dispatcher{loader: loader, log: log}
}

// LoadAll loads one index per immediate file of kbDir. Subdirectories are not
// descended into: knowledge bases are flat by contract. The index name is the
// filename without its extension. A failed load does not stop the siblings;
// all failures come back aggregated in a LoadError. Iteration is in directory
// order (sorted by filename), which keeps failure reporting deterministic.
func (d *Dispatcher) LoadAll(ctx context.Context, kbDir, appName, host string) error {
	entries, err := os.ReadDir(kbDir)
	if err != nil {
		return fmt.Errorf("read knowledge base dir %s: %w", kbDir, err)
	}

	var failures []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		indexName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		dataFile := filepath.Join(kbDir, fileName)

		d.log.Info("Loading index",
			zap.String("app", appName),
			zap.String("index", indexName),
			zap.String("file", dataFile))

		if err := d.loader.Load(ctx, appName, indexName, dataFile, host); err != nil {
			d.log.Error("Index load failed",
				zap.String("index", indexName),
				zap.Error(err))
			failures = append(failures, fmt.Errorf("index %q: %w", indexName, err))
		}
	}

	if len(failures) > 0 {
		return &LoadError{Dir: kbDir, Errs: failures}
	}
	return nil
}
