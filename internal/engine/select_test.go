package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultsToBitcaskOnFreshDir(t *testing.T) {
	dir := t.TempDir()

	chosen, err := engine.Resolve(dir, "")
	require.NoError(t, err)
	require.Equal(t, engine.Bitcask, chosen)

	raw, err := os.ReadFile(filepath.Join(dir, "engine"))
	require.NoError(t, err)
	require.Equal(t, "bitcask", string(raw))
}

func TestResolvePersistsRequestedEngine(t *testing.T) {
	dir := t.TempDir()

	chosen, err := engine.Resolve(dir, engine.Bolt)
	require.NoError(t, err)
	require.Equal(t, engine.Bolt, chosen)

	chosen, err = engine.Resolve(dir, "")
	require.NoError(t, err)
	require.Equal(t, engine.Bolt, chosen)
}

func TestResolveRejectsMismatchedEngine(t *testing.T) {
	dir := t.TempDir()

	_, err := engine.Resolve(dir, engine.Bitcask)
	require.NoError(t, err)

	_, err = engine.Resolve(dir, engine.Bolt)
	require.Error(t, err)
}
