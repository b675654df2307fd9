package compaction_test

import (
	"os"
	"testing"

	"github.com/ignitekv/ignitekv/internal/compaction"
	"github.com/ignitekv/ignitekv/internal/index"
	"github.com/ignitekv/ignitekv/internal/storage"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestRunFoldsLiveRecordsIntoOneSegmentAndDropsTheRest(t *testing.T) {
	dir := t.TempDir()
	idx, err := index.New(&index.Config{Logger: logger.Noop()})
	require.NoError(t, err)

	// Segment 1: set a=1.
	w1, err := storage.NewWriter(storage.SegmentPath(dir, 1))
	require.NoError(t, err)
	offA := w1.Pos()
	lenA, err := storage.Encode(w1, storage.NewSetCommand("a", "1"))
	require.NoError(t, err)
	require.NoError(t, w1.Close())
	idx.Put("a", index.Pointer{SegmentID: 1, Offset: offA, Length: lenA})

	// Segment 2 (the active segment at compaction time): set b=2.
	w2, err := storage.NewWriter(storage.SegmentPath(dir, 2))
	require.NoError(t, err)
	offB := w2.Pos()
	lenB, err := storage.Encode(w2, storage.NewSetCommand("b", "2"))
	require.NoError(t, err)
	require.NoError(t, w2.Close())
	idx.Put("b", index.Pointer{SegmentID: 2, Offset: offB, Length: lenB})

	result, err := compaction.Run(compaction.Params{
		DataDir:         dir,
		Index:           idx,
		ActiveSegmentID: 2,
		Logger:          logger.Noop(),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(3), result.CompactionSegmentID)
	require.Equal(t, uint64(4), result.NewActiveSegmentID)

	aPtr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, result.CompactionSegmentID, aPtr.SegmentID)

	bPtr, ok := idx.Get("b")
	require.True(t, ok)
	require.Equal(t, result.CompactionSegmentID, bPtr.SegmentID)

	_, err = os.Stat(storage.SegmentPath(dir, 1))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(storage.SegmentPath(dir, 2))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(storage.SegmentPath(dir, result.NewActiveSegmentID))
	require.NoError(t, err, "compaction must leave a fresh active segment in place")
}
