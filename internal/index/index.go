// Package index provides the in-memory hash table mapping keys to their
// on-disk location, the core Bitcask data structure: keep every key in
// memory, keep every value on disk.
package index

import (
	"github.com/ignitekv/ignitekv/pkg/errors"
)

// New creates an empty Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		entries: make(map[string]Pointer, 1024),
	}, nil
}

// Get returns the pointer for key and whether it was present.
func (idx *Index) Get(key string) (Pointer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.entries[key]
	return p, ok
}

// Put records (or overwrites) the pointer for key, returning the
// previous pointer if one existed, so the caller can account for its
// bytes as now-uncompacted.
func (idx *Index) Put(key string, ptr Pointer) (previous Pointer, existed bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	previous, existed = idx.entries[key]
	idx.entries[key] = ptr
	return previous, existed
}

// Delete removes key from the index, returning the pointer it held if
// any existed.
func (idx *Index) Delete(key string) (previous Pointer, existed bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	previous, existed = idx.entries[key]
	if existed {
		delete(idx.entries, key)
	}
	return previous, existed
}

// Len reports the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// ForEach calls fn once per live key/pointer pair. fn must not call back
// into the Index: ForEach holds the read lock for its entire iteration.
// Compaction uses this to build the new segment from exactly the
// entries that are still live.
func (idx *Index) ForEach(fn func(key string, ptr Pointer)) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for k, p := range idx.entries {
		fn(k, p)
	}
}

// Rebase atomically repoints every key in replacements to its new
// location, but only where the index's current pointer still names one
// of oldSegmentIDs. A key whose pointer already moved to some other
// segment was overwritten by a concurrent Set after compaction started
// scanning, and that newer write must win — the stale replacement is
// silently dropped.
func (idx *Index) Rebase(oldSegmentIDs map[uint64]bool, replacements map[string]Pointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for k, p := range replacements {
		current, ok := idx.entries[k]
		if !ok {
			continue
		}
		if oldSegmentIDs[current.SegmentID] {
			idx.entries[k] = p
		}
	}
}
