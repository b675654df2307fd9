package index

import (
	"sync"

	"go.uber.org/zap"
)

// Pointer is the in-memory metadata the index keeps per live key: just
// enough to seek straight to the record on disk without scanning
// anything.
type Pointer struct {
	// SegmentID names the segment file this record lives in.
	SegmentID uint64
	// Offset is the byte position within that segment where the record
	// starts.
	Offset int64
	// Length is the number of bytes the record occupies, letting
	// compaction copy exactly the right span with no re-parsing to find
	// the end.
	Length int64
}

// Index is the in-memory hash table mapping live keys to their disk
// location. It never holds values, only pointers, which is what lets
// the engine serve datasets far larger than RAM.
type Index struct {
	log     *zap.SugaredLogger
	entries map[string]Pointer
	mu      sync.RWMutex
}

// Config carries the parameters needed to build an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
