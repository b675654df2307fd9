// Package storage implements the append-only segment log that backs the
// storage engine: position-tracked readers/writers, a self-delimited
// Set/Remove record codec, and segment file discovery.
package storage

import (
	"path/filepath"

	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/ignitekv/ignitekv/pkg/filesys"
	"github.com/ignitekv/ignitekv/pkg/seginfo"
)

// SortedSegmentIDs lists the ids of every segment file in dir, ascending.
func SortedSegmentIDs(dir string) ([]uint64, error) {
	return seginfo.SortedSegmentIDs(dir)
}

// SegmentPath returns the path to segment id within dir.
func SegmentPath(dir string, id uint64) string {
	return seginfo.SegmentPath(dir, id)
}

// NextActiveSegmentID returns the id a newly opened engine should start
// writing to: one past the highest existing segment, or 1 if dir holds
// no segments yet.
func NextActiveSegmentID(dir string) (uint64, error) {
	latest, found, err := seginfo.LatestSegmentID(dir)
	if err != nil {
		return 0, err
	}
	if !found {
		return 1, nil
	}
	return latest + 1, nil
}

// EnsureDataDir creates dir if it doesn't already exist.
func EnsureDataDir(dir string) error {
	dir = filepath.Clean(dir)
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return errors.ClassifyDirectoryCreationError(err, dir)
	}
	return nil
}

// RemoveSegment deletes the on-disk file for segment id, used by
// compaction to drop segments it has fully superseded.
func RemoveSegment(dir string, id uint64) error {
	path := SegmentPath(dir, id)
	if err := filesys.DeleteFile(path); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove stale segment").
			WithPath(path).WithSegmentID(id)
	}
	return nil
}
