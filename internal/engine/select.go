package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ignitekv/ignitekv/pkg/filesys"
)

// Name identifies a storage backend.
type Name string

const (
	// Bitcask is the primary log-structured engine (internal/kvengine).
	Bitcask Name = "bitcask"
	// Bolt is the alternative transactional engine (internal/boltengine),
	// backed by go.etcd.io/bbolt.
	Bolt Name = "bolt"
)

// sidecarFile is the name of the small file a server writes into its
// data directory recording which backend it was opened with.
const sidecarFile = "engine"

// Valid reports whether name is a known engine.
func (n Name) Valid() bool {
	return n == Bitcask || n == Bolt
}

// Resolve reconciles the engine the caller requested against whatever
// engine this data directory was last opened with:
//
//   - No sidecar file and no request: defaults to Bitcask.
//   - No sidecar file, a request: persists the request.
//   - A sidecar file, no request: uses whatever is persisted.
//   - A sidecar file, a request: they must match, or Resolve errors
//     rather than silently picking one — opening a bitcask data
//     directory with the bolt engine (or vice versa) would silently
//     produce an empty store.
func Resolve(dataDir string, requested Name) (Name, error) {
	if requested != "" && !requested.Valid() {
		return "", fmt.Errorf("unknown engine %q", requested)
	}

	path := filepath.Join(dataDir, sidecarFile)
	exists, err := filesys.Exists(path)
	if err != nil {
		return "", fmt.Errorf("failed to check engine sidecar file: %w", err)
	}

	if !exists {
		chosen := requested
		if chosen == "" {
			chosen = Bitcask
		}
		if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := filesys.WriteFile(path, 0644, []byte(chosen)); err != nil {
			return "", fmt.Errorf("failed to persist engine selection: %w", err)
		}
		return chosen, nil
	}

	raw, err := filesys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read engine sidecar file: %w", err)
	}
	persisted := Name(strings.TrimSpace(string(raw)))

	if requested != "" && requested != persisted {
		return "", fmt.Errorf(
			"data directory %s was opened with engine %q, cannot reopen with %q",
			dataDir, persisted, requested,
		)
	}

	return persisted, nil
}
