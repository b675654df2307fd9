package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/ignitekv/ignitekv/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestWriterTracksPositionAcrossWrites(t *testing.T) {
	dir := t.TempDir()
	path := storage.SegmentPath(dir, 1)

	w, err := storage.NewWriter(path)
	require.NoError(t, err)
	require.Equal(t, int64(0), w.Pos())

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, w.Flush())
	require.Equal(t, int64(5), w.Pos())

	require.NoError(t, w.Close())

	w2, err := storage.NewWriter(path)
	require.NoError(t, err)
	require.Equal(t, int64(5), w2.Pos(), "reopening an append writer should seed pos from existing file size")
	require.NoError(t, w2.Close())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := storage.SegmentPath(dir, 1)

	w, err := storage.NewWriter(path)
	require.NoError(t, err)

	offset1 := w.Pos()
	len1, err := storage.Encode(w, storage.NewSetCommand("a", "1"))
	require.NoError(t, err)

	offset2 := w.Pos()
	len2, err := storage.Encode(w, storage.NewRemoveCommand("a"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := storage.NewReader(path)
	require.NoError(t, err)
	dec := storage.NewDecoder(r)

	cmd, off, length, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, offset1, off)
	require.Equal(t, len1, length)
	require.True(t, cmd.IsSet())
	require.Equal(t, "a", cmd.Key)
	require.Equal(t, "1", cmd.Value)

	cmd, off, length, err = dec.Next()
	require.NoError(t, err)
	require.Equal(t, offset2, off)
	require.Equal(t, len2, length)
	require.True(t, cmd.IsRemove())
	require.Equal(t, "a", cmd.Key)

	require.NoError(t, r.Close())
}

func TestSortedSegmentIDsIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	for _, id := range []uint64{3, 1, 2} {
		w, err := storage.NewWriter(storage.SegmentPath(dir, id))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	require.NoError(t, storage.EnsureDataDir(filepath.Join(dir, "nested")))

	ids, err := storage.SortedSegmentIDs(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, ids)
}

func TestCopyRecordStreamsExactBytes(t *testing.T) {
	dir := t.TempDir()
	srcPath := storage.SegmentPath(dir, 1)

	w, err := storage.NewWriter(srcPath)
	require.NoError(t, err)
	offset := w.Pos()
	length, err := storage.Encode(w, storage.NewSetCommand("k", "v"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dstPath := storage.SegmentPath(dir, 2)
	dstWriter, err := storage.NewWriter(dstPath)
	require.NoError(t, err)

	n, err := storage.CopyRecord(dstWriter, srcPath, offset, length)
	require.NoError(t, err)
	require.Equal(t, length, n)
	require.NoError(t, dstWriter.Close())

	r, err := storage.NewReader(dstPath)
	require.NoError(t, err)
	cmd, _, _, err := storage.NewDecoder(r).Next()
	require.NoError(t, err)
	require.True(t, cmd.IsSet())
	require.Equal(t, "k", cmd.Key)
	require.Equal(t, "v", cmd.Value)
	require.NoError(t, r.Close())
}
