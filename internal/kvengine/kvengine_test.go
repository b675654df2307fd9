package kvengine_test

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ignitekv/ignitekv/internal/kvengine"
	"github.com/ignitekv/ignitekv/internal/storage"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/stretchr/testify/require"
)

func openEngine(t *testing.T, dir string, opts ...options.OptionFunc) *kvengine.Engine {
	t.Helper()
	o := options.NewDefaultOptions()
	options.WithDataDir(dir)(&o)
	for _, opt := range opts {
		opt(&o)
	}
	e, err := kvengine.Open(&kvengine.Config{Options: &o, Logger: logger.Noop()})
	require.NoError(t, err)
	return e
}

func segmentNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func TestFreshOpenAndReopen(t *testing.T) {
	dir := t.TempDir()

	e := openEngine(t, dir)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	v, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", v)

	_, found, err = e.Get("c")
	require.NoError(t, err)
	require.False(t, found)

	require.Equal(t, []string{"1.log"}, segmentNames(t, dir))
	require.NoError(t, e.Close())

	e2 := openEngine(t, dir)
	v, found, err = e2.Get("b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", v)

	require.Equal(t, []string{"1.log", "2.log"}, segmentNames(t, dir))
	require.NoError(t, e2.Close())
}

func TestCompactionTriggersUnderSustainedOverwrites(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir, options.WithCompactThreshold(64*1024))

	bigValue := make([]byte, 100)
	for i := range bigValue {
		bigValue[i] = 'x'
	}

	for i := 0; i < 20000; i++ {
		require.NoError(t, e.Set("k", string(bigValue)))
	}

	v, found, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, string(bigValue), v)

	names := segmentNames(t, dir)
	require.NotEmpty(t, names)
	require.NotContains(t, names, "1.log", "at least one compaction should have retired the first segment")

	var totalBytes int64
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		totalBytes += info.Size()
	}
	require.Less(t, totalBytes, int64(3*64*1024),
		"on-disk size should stay bounded by the compaction threshold, not grow with overwrite count")

	require.NoError(t, e.Close())
}

func TestDoubleRemoveYieldsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir)

	require.NoError(t, e.Set("x", "1"))
	require.NoError(t, e.Remove("x"))

	err := e.Remove("x")
	require.Error(t, err)
	ee, ok := errors.AsEngineError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeKeyNotFound, ee.Code())

	require.NoError(t, e.Close())

	// The failed second remove must not have appended a tombstone: the
	// segment holds exactly one Set and one Remove record for "x".
	var sets, removes int
	r, err := storage.NewReader(storage.SegmentPath(dir, 1))
	require.NoError(t, err)
	defer r.Close()
	dec := storage.NewDecoder(r)
	for {
		cmd, _, _, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, "x", cmd.Key)
		if cmd.IsSet() {
			sets++
		} else {
			removes++
		}
	}
	require.Equal(t, 1, sets)
	require.Equal(t, 1, removes)
}

func TestTruncatedTrailingRecordRecoversCleanly(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir)

	require.NoError(t, e.Set("whole", "value"))
	require.NoError(t, e.Close())

	path := filepath.Join(dir, "1.log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte(`{"kind":"set","key":"tru`)...), 0644))

	e2 := openEngine(t, dir)
	v, found, err := e2.Get("whole")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value", v)

	_, found, err = e2.Get("truncated")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, e2.Close())
}

func TestInterleavedSetRemove(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir)

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))
	require.NoError(t, e.Remove("a"))
	require.NoError(t, e.Set("a", "3"))

	v, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "3", v)

	v, found, err = e.Get("b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", v)

	require.NoError(t, e.Close())
}

func TestBoundaryEmptyKeyAndValue(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir)

	require.NoError(t, e.Set("", ""))
	v, found, err := e.Get("")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "", v)

	require.NoError(t, e.Close())
}

func TestBoundaryMegabyteValueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	e := openEngine(t, dir)

	big := strings.Repeat("v", 1<<20)
	require.NoError(t, e.Set("big", big))

	v, found, err := e.Get("big")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, big, v)

	require.NoError(t, e.Close())

	e2 := openEngine(t, dir)
	v, found, err = e2.Get("big")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, big, v)
	require.NoError(t, e2.Close())
}
