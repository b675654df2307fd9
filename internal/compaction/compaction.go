// Package compaction rewrites every live record across a data directory's
// segments into one fresh segment, then starts a new active segment.
// Compaction folds the active segment in along with every older one, so
// writers must always open a new active segment immediately afterward.
//
// This package takes its dependencies as plain parameters rather than
// importing the engine package that calls it, so the engine can own
// compaction's triggering policy (byte threshold, ticker) without an
// import cycle.
package compaction

import (
	"github.com/ignitekv/ignitekv/internal/index"
	"github.com/ignitekv/ignitekv/internal/storage"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"go.uber.org/zap"
)

// Params describes one compaction run.
type Params struct {
	DataDir string
	Index   *index.Index
	// ActiveSegmentID is the segment currently open for writes. It gets
	// folded into the compaction along with everything older; compaction
	// never special-cases "the segment I'm writing to right now."
	ActiveSegmentID uint64
	Logger          *zap.SugaredLogger
}

// Result reports the ids compaction produced.
type Result struct {
	// CompactionSegmentID holds every record that was live when the run
	// started.
	CompactionSegmentID uint64
	// NewActiveSegmentID is where new writes go after compaction
	// finishes; it is deliberately not CompactionSegmentID+0 so the
	// compaction file and the new active file never collide even if a
	// crash interrupts cleanup of stale segments.
	NewActiveSegmentID uint64
}

type liveEntry struct {
	key string
	ptr index.Pointer
}

// Run performs one compaction pass and returns the new segment ids the
// engine must switch to.
func Run(p Params) (Result, error) {
	compactionID := p.ActiveSegmentID + 1
	newActiveID := p.ActiveSegmentID + 2

	var live []liveEntry
	p.Index.ForEach(func(key string, ptr index.Pointer) {
		live = append(live, liveEntry{key: key, ptr: ptr})
	})

	p.Logger.Infow("starting compaction",
		"liveKeys", len(live), "compactionSegmentID", compactionID, "newActiveSegmentID", newActiveID)

	writer, err := storage.NewWriter(storage.SegmentPath(p.DataDir, compactionID))
	if err != nil {
		return Result{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open compaction segment").
			WithSegmentID(compactionID).WithOperation("Compact")
	}

	oldSegmentIDs := make(map[uint64]bool, len(live))
	replacements := make(map[string]index.Pointer, len(live))

	for _, entry := range live {
		oldSegmentIDs[entry.ptr.SegmentID] = true

		offset := writer.Pos()
		n, err := storage.CopyRecord(
			writer, storage.SegmentPath(p.DataDir, entry.ptr.SegmentID), entry.ptr.Offset, entry.ptr.Length,
		)
		if err != nil {
			writer.Close()
			return Result{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to copy live record during compaction").
				WithKey(entry.key).WithSegmentID(entry.ptr.SegmentID).WithOffset(entry.ptr.Offset).WithOperation("Compact")
		}

		replacements[entry.key] = index.Pointer{SegmentID: compactionID, Offset: offset, Length: n}
	}

	if err := writer.Sync(); err != nil {
		writer.Close()
		return Result{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to sync compaction segment").
			WithSegmentID(compactionID).WithOperation("Compact")
	}
	if err := writer.Close(); err != nil {
		return Result{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to close compaction segment").
			WithSegmentID(compactionID).WithOperation("Compact")
	}

	p.Index.Rebase(oldSegmentIDs, replacements)

	newActiveWriter, err := storage.NewWriter(storage.SegmentPath(p.DataDir, newActiveID))
	if err != nil {
		return Result{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to create new active segment").
			WithSegmentID(newActiveID).WithOperation("Compact")
	}
	if err := newActiveWriter.Close(); err != nil {
		return Result{}, err
	}

	ids, err := storage.SortedSegmentIDs(p.DataDir)
	if err != nil {
		return Result{}, err
	}
	for _, id := range ids {
		if id < compactionID {
			if err := storage.RemoveSegment(p.DataDir, id); err != nil {
				p.Logger.Warnw("failed to remove stale segment after compaction", "segmentID", id, "error", err)
			}
		}
	}

	p.Logger.Infow("compaction complete",
		"compactionSegmentID", compactionID, "newActiveSegmentID", newActiveID, "liveKeys", len(live))

	return Result{CompactionSegmentID: compactionID, NewActiveSegmentID: newActiveID}, nil
}
