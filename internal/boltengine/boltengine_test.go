package boltengine_test

import (
	"path/filepath"
	"testing"

	"github.com/ignitekv/ignitekv/internal/boltengine"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSetGetRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignitekv.bolt")

	e, err := boltengine.Open(path)
	require.NoError(t, err)

	require.NoError(t, e.Set("a", "1"))
	v, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", v)

	_, found, err = e.Get("missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, e.Remove("a"))
	_, found, err = e.Get("a")
	require.NoError(t, err)
	require.False(t, found)

	err = e.Remove("a")
	require.Error(t, err)
	ee, ok := errors.AsEngineError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeKeyNotFound, ee.Code())

	require.NoError(t, e.Close())
}
