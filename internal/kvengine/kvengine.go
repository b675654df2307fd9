// Package kvengine implements the primary storage engine: an append-only,
// log-structured key-value store modeled after Bitcask. It composes
// internal/storage (segment I/O and record codec), internal/index (the
// in-memory key → location map), and internal/compaction (space
// reclamation) into the four operations internal/engine.Engine exposes.
package kvengine

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignitekv/ignitekv/internal/compaction"
	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/ignitekv/ignitekv/internal/index"
	"github.com/ignitekv/ignitekv/internal/storage"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/ignitekv/ignitekv/pkg/options"
	"go.uber.org/zap"
)

// Engine is the log-structured storage engine. A single instance owns
// its data directory exclusively: the active segment's writer and the
// per-segment readers are not safe for concurrent use from multiple
// Engine instances.
type Engine struct {
	mu sync.Mutex

	dataDir string
	opts    *options.Options
	log     *zap.SugaredLogger

	index            *index.Index
	readers          map[uint64]*storage.Reader
	writer           *storage.Writer
	activeID         uint64
	uncompactedBytes uint64

	closed   atomic.Bool
	stop     chan struct{}
	stopDone chan struct{}
}

var _ engine.Engine = (*Engine)(nil)

// Config carries the parameters needed to open an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open recovers the engine state from dataDir (creating it if absent)
// and starts a fresh active segment.
func Open(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dataDir := config.Options.DataDir
	if err := storage.EnsureDataDir(dataDir); err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to create data directory").
			WithOperation("Open")
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	ids, err := storage.SortedSegmentIDs(dataDir)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to enumerate segments").
			WithOperation("Open")
	}

	readers := make(map[uint64]*storage.Reader, len(ids)+1)
	var uncompacted uint64

	for _, id := range ids {
		n, err := replaySegment(dataDir, id, idx)
		if err != nil {
			return nil, err
		}
		uncompacted += n

		r, err := storage.NewReader(storage.SegmentPath(dataDir, id))
		if err != nil {
			return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open segment reader").
				WithSegmentID(id).WithOperation("Open")
		}
		readers[id] = r
	}

	activeID, err := storage.NextActiveSegmentID(dataDir)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to determine active segment id").
			WithOperation("Open")
	}

	writer, err := storage.NewWriter(storage.SegmentPath(dataDir, activeID))
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to create active segment").
			WithSegmentID(activeID).WithOperation("Open")
	}
	activeReader, err := storage.NewReader(storage.SegmentPath(dataDir, activeID))
	if err != nil {
		writer.Close()
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open active segment reader").
			WithSegmentID(activeID).WithOperation("Open")
	}
	readers[activeID] = activeReader

	config.Logger.Infow("engine opened",
		"dataDir", dataDir, "activeSegmentID", activeID, "recoveredKeys", idx.Len(), "uncompactedBytes", uncompacted)

	e := &Engine{
		dataDir:          dataDir,
		opts:             config.Options,
		log:              config.Logger,
		index:            idx,
		readers:          readers,
		writer:           writer,
		activeID:         activeID,
		uncompactedBytes: uncompacted,
	}

	if config.Options.CompactInterval > 0 {
		e.stop = make(chan struct{})
		e.stopDone = make(chan struct{})
		go e.runCompactionTicker(config.Options.CompactInterval)
	}

	return e, nil
}

// replaySegment streams every record in segment id and replays it into
// idx, returning the number of bytes this segment contributed to
// uncompacted_bytes. A decode error partway through is treated as the
// end of this segment's usable records: a truncated trailing record
// from a crash mid-write does not fail Open.
func replaySegment(dataDir string, id uint64, idx *index.Index) (uint64, error) {
	r, err := storage.NewReader(storage.SegmentPath(dataDir, id))
	if err != nil {
		return 0, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open segment for recovery").
			WithSegmentID(id).WithOperation("Open")
	}
	defer r.Close()

	dec := storage.NewDecoder(r)
	var uncompacted uint64

	for {
		cmd, offset, length, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Any other decode failure is also treated as the
			// recovery boundary rather than failing Open entirely;
			// a corrupted tail is tolerated, not repaired.
			break
		}

		switch {
		case cmd.IsSet():
			prev, existed := idx.Put(cmd.Key, index.Pointer{SegmentID: id, Offset: offset, Length: length})
			if existed {
				uncompacted += uint64(prev.Length)
			}
		case cmd.IsRemove():
			prev, existed := idx.Delete(cmd.Key)
			if existed {
				uncompacted += uint64(prev.Length)
			}
			uncompacted += uint64(length)
		}
	}

	return uncompacted, nil
}

// Set stores value under key, overwriting any existing value.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	offset := e.writer.Pos()
	length, err := storage.Encode(e.writer, storage.NewSetCommand(key, value))
	if err != nil {
		return err
	}

	prev, existed := e.index.Put(key, index.Pointer{SegmentID: e.activeID, Offset: offset, Length: length})
	if existed {
		e.uncompactedBytes += uint64(prev.Length)
	}

	return e.maybeCompactLocked()
}

// Get returns the value for key and whether it was present.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ptr, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	reader, err := e.readerForLocked(key, ptr.SegmentID)
	if err != nil {
		return "", false, err
	}

	if _, err := reader.Seek(ptr.Offset, io.SeekStart); err != nil {
		return "", false, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to seek to record").
			WithKey(key).WithSegmentID(ptr.SegmentID).WithOffset(ptr.Offset).WithOperation("Get")
	}

	dec := storage.NewDecoder(reader)
	cmd, _, _, err := dec.Next()
	if err != nil {
		return "", false, errors.NewCodecError(err, "Get")
	}

	if !cmd.IsSet() {
		return "", false, errors.NewUnexpectedCommandError(key, ptr.SegmentID, ptr.Offset)
	}

	return cmd.Value, true, nil
}

// Remove deletes key, failing with KeyNotFound if it has no value.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.index.Get(key); !ok {
		return errors.NewKeyNotFoundEngineError(key)
	}

	tombLength, err := storage.Encode(e.writer, storage.NewRemoveCommand(key))
	if err != nil {
		return err
	}

	prev, existed := e.index.Delete(key)
	if existed {
		e.uncompactedBytes += uint64(prev.Length) + uint64(tombLength)
	}

	return e.maybeCompactLocked()
}

// readerForLocked returns the reader for segment id, opening one on
// demand if none is registered yet (a segment compaction just created,
// for instance). Caller must hold e.mu. Failing to open the segment file
// the index points at means the index and the on-disk segment set have
// drifted out of sync, so that failure is reported as an index error
// rather than a plain I/O error.
func (e *Engine) readerForLocked(key string, id uint64) (*storage.Reader, error) {
	if r, ok := e.readers[id]; ok {
		return r, nil
	}
	r, err := storage.NewReader(storage.SegmentPath(e.dataDir, id))
	if err != nil {
		return nil, errors.NewSegmentIDError(err, id, key)
	}
	e.readers[id] = r
	return r, nil
}

// maybeCompactLocked runs compaction if the uncompacted-byte threshold
// has been crossed. Caller must hold e.mu.
func (e *Engine) maybeCompactLocked() error {
	threshold := e.opts.CompactThreshold
	if threshold == 0 {
		threshold = options.DefaultCompactThreshold
	}
	if e.uncompactedBytes <= threshold {
		return nil
	}
	return e.compactLocked()
}

// compactLocked performs one compaction pass, then rolls readers/writer
// over to the new segments compaction produced. Caller must hold e.mu.
func (e *Engine) compactLocked() error {
	result, err := compaction.Run(compaction.Params{
		DataDir:         e.dataDir,
		Index:           e.index,
		ActiveSegmentID: e.activeID,
		Logger:          e.log,
	})
	if err != nil {
		return err
	}

	for id, r := range e.readers {
		if id < result.CompactionSegmentID {
			r.Close()
			delete(e.readers, id)
		}
	}

	if err := e.writer.Close(); err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to close superseded active segment").
			WithSegmentID(e.activeID).WithOperation("Compact")
	}

	compactionReader, err := storage.NewReader(storage.SegmentPath(e.dataDir, result.CompactionSegmentID))
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open compaction segment reader").
			WithSegmentID(result.CompactionSegmentID).WithOperation("Compact")
	}
	e.readers[result.CompactionSegmentID] = compactionReader

	newWriter, err := storage.NewWriter(storage.SegmentPath(e.dataDir, result.NewActiveSegmentID))
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open new active segment").
			WithSegmentID(result.NewActiveSegmentID).WithOperation("Compact")
	}
	newReader, err := storage.NewReader(storage.SegmentPath(e.dataDir, result.NewActiveSegmentID))
	if err != nil {
		newWriter.Close()
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open new active segment reader").
			WithSegmentID(result.NewActiveSegmentID).WithOperation("Compact")
	}

	e.writer = newWriter
	e.activeID = result.NewActiveSegmentID
	e.readers[result.NewActiveSegmentID] = newReader
	e.uncompactedBytes = 0

	return nil
}

// runCompactionTicker triggers compaction on a fixed interval in
// addition to the byte threshold, as an optional safety net for
// workloads whose overwrites never cross COMPACT_THRESHOLD. Disabled
// unless Options.CompactInterval is set.
func (e *Engine) runCompactionTicker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(e.stopDone)

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.uncompactedBytes > 0 {
				if err := e.compactLocked(); err != nil {
					e.log.Errorw("background compaction failed", "error", err)
				}
			}
			e.mu.Unlock()
		}
	}
}

// Close flushes and releases every open file handle. The engine must
// not be used afterward.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	if e.stop != nil {
		close(e.stop)
		<-e.stopDone
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	if err := e.writer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	for _, r := range e.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return errors.NewEngineError(firstErr, errors.ErrorCodeIO, "failed to close engine cleanly").
			WithOperation("Close")
	}
	return nil
}
