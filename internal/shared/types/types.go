// Package types holds shared domain types used across the provisioning pipeline.
package types

import "fmt"

// ArchiveKind identifies one of the two archives a blueprint bundle ships.
type ArchiveKind string

const (
	// ArchiveApp is the application archive (app code, domains, entities).
	ArchiveApp ArchiveKind = "app"

	// ArchiveKB is the knowledge-base archive (index data files).
	ArchiveKB ArchiveKind = "kb"
)

// Remote store filenames, fixed per archive kind.
const (
	appArchiveFile = "app.tar.gz"
	kbArchiveFile  = "kb.tar.gz"
)

// Filename returns the fixed archive filename for the kind, both in the remote
// store and in the local cache.
func (k ArchiveKind) Filename() (string, error) {
	switch k {
	case ArchiveApp:
		return appArchiveFile, nil
	case ArchiveKB:
		return kbArchiveFile, nil
	default:
		return "", fmt.Errorf("unknown archive kind: %q", string(k))
	}
}

// String implements fmt.Stringer.
func (k ArchiveKind) String() string {
	return string(k)
}
