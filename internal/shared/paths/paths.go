// Package paths provides standardized filesystem paths for the blueprint cache.
//
// All components resolve cache locations through this package so the on-disk
// layout stays consistent: one directory per blueprint under a single per-user
// root, containing the two archive files and the knowledge-base staging tree.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache layout names
const (
	cacheVendorDir = "workbench"
	cacheKindDir   = "blueprints"

	// StagingDirName is the knowledge-base extraction target inside a
	// blueprint's cache directory.
	StagingDirName = "kb"
)

// Root returns the per-user blueprint cache root. An explicit override wins;
// otherwise the root lives under the OS user cache directory.
func Root(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, cacheVendorDir, cacheKindDir), nil
}

// BlueprintDir returns the cache directory for a named blueprint. Pure and
// total over any name; validation is the orchestrator's job.
func BlueprintDir(root, name string) string {
	return filepath.Join(root, name)
}

// ArchivePath returns the local path of one cached archive file.
func ArchivePath(root, name, filename string) string {
	return filepath.Join(BlueprintDir(root, name), filename)
}

// StagingDir returns the knowledge-base staging directory for a blueprint.
func StagingDir(root, name string) string {
	return filepath.Join(BlueprintDir(root, name), StagingDirName)
}

// ValidateName checks that a blueprint name is safe for path construction.
// Registry membership is checked elsewhere; this only guards path math.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("blueprint name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("blueprint name cannot be an absolute path")
	}
	if filepath.Clean(name) != name || filepath.Base(name) != name {
		return fmt.Errorf("blueprint name contains invalid path components")
	}
	return nil
}
