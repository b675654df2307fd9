// Package seginfo names and discovers segment files in an ignitekv data
// directory.
//
// Filename format: "<id>.log", where <id> is a positive decimal integer
// with no leading zeros. Segment ids impose a total order that reflects
// creation order: a larger id is strictly newer.
package seginfo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const extension = ".log"

// SegmentFileName returns the filename for segment id, e.g. "7.log".
func SegmentFileName(id uint64) string {
	return strconv.FormatUint(id, 10) + extension
}

// SegmentPath returns the full path to segment id within dir.
func SegmentPath(dir string, id uint64) string {
	return filepath.Join(dir, SegmentFileName(id))
}

// ParseSegmentID extracts the numeric id from a segment filename. It
// returns an error for any name that isn't "<digits>.log" with no
// leading zeros (other than the literal id "0").
func ParseSegmentID(name string) (uint64, error) {
	if !strings.HasSuffix(name, extension) {
		return 0, fmt.Errorf("filename %s does not end in %s", name, extension)
	}

	digits := strings.TrimSuffix(name, extension)
	if digits == "" {
		return 0, fmt.Errorf("filename %s has no id component", name)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("filename %s has a zero-padded id", name)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("filename %s has a non-numeric id", name)
		}
	}

	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse segment id %q: %w", digits, err)
	}
	return id, nil
}

// SortedSegmentIDs enumerates files in dir whose name is "<id>.log" and
// returns the parsed ids in ascending order. Entries with unparseable
// names are skipped rather than treated as an error, since a data
// directory may hold unrelated files (e.g. the engine sidecar file).
func SortedSegmentIDs(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	ids := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, err := ParseSegmentID(entry.Name())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids, nil
}

// LatestSegmentID returns the highest existing segment id in dir, and
// whether any segment exists at all. It deliberately doesn't fold the
// "+1 for a fresh directory" rule in itself, since only the caller
// knows whether a missing segment means "fresh directory" or
// "corrupted state".
func LatestSegmentID(dir string) (id uint64, found bool, err error) {
	ids, err := SortedSegmentIDs(dir)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[len(ids)-1], true, nil
}
