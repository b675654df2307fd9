package index_test

import (
	"testing"

	"github.com/ignitekv/ignitekv/internal/index"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(&index.Config{Logger: logger.Noop()})
	require.NoError(t, err)
	return idx
}

func TestPutGetDelete(t *testing.T) {
	idx := newIndex(t)

	_, existed := idx.Put("a", index.Pointer{SegmentID: 1, Offset: 0, Length: 10})
	require.False(t, existed)
	require.Equal(t, 1, idx.Len())

	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(1), ptr.SegmentID)

	prev, existed := idx.Put("a", index.Pointer{SegmentID: 2, Offset: 5, Length: 20})
	require.True(t, existed)
	require.Equal(t, int64(10), prev.Length)

	prev, existed = idx.Delete("a")
	require.True(t, existed)
	require.Equal(t, int64(20), prev.Length)
	require.Equal(t, 0, idx.Len())

	_, existed = idx.Delete("missing")
	require.False(t, existed)
}

func TestRebaseOnlyReplacesPointersStillOnOldSegments(t *testing.T) {
	idx := newIndex(t)

	idx.Put("a", index.Pointer{SegmentID: 1, Offset: 0, Length: 10})
	idx.Put("b", index.Pointer{SegmentID: 1, Offset: 10, Length: 10})

	// Simulate a concurrent overwrite of "b" onto a newer segment
	// while compaction was scanning segment 1.
	idx.Put("b", index.Pointer{SegmentID: 5, Offset: 0, Length: 3})

	oldIDs := map[uint64]bool{1: true}
	replacements := map[string]index.Pointer{
		"a": {SegmentID: 2, Offset: 0, Length: 10},
		"b": {SegmentID: 2, Offset: 10, Length: 10},
	}
	idx.Rebase(oldIDs, replacements)

	aPtr, _ := idx.Get("a")
	require.Equal(t, uint64(2), aPtr.SegmentID, "a should move to the compaction segment")

	bPtr, _ := idx.Get("b")
	require.Equal(t, uint64(5), bPtr.SegmentID, "b's newer write must not be clobbered by a stale replacement")
}

func TestForEachIteratesAllLiveEntries(t *testing.T) {
	idx := newIndex(t)
	idx.Put("a", index.Pointer{SegmentID: 1})
	idx.Put("b", index.Pointer{SegmentID: 1})

	seen := map[string]bool{}
	idx.ForEach(func(key string, ptr index.Pointer) {
		seen[key] = true
	})

	require.Len(t, seen, 2)
	require.True(t, seen["a"])
	require.True(t, seen["b"])
}
