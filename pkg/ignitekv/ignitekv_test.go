package ignitekv_test

import (
	"testing"

	"github.com/ignitekv/ignitekv/pkg/ignitekv"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestOpenSetGetDeleteAndReopen(t *testing.T) {
	dir := t.TempDir()

	inst, err := ignitekv.Open("ignitekv-test", options.WithDataDir(dir))
	require.NoError(t, err)

	require.NoError(t, inst.Set("a", "1"))

	value, found, err := inst.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", value)

	require.NoError(t, inst.Delete("a"))

	err = inst.Delete("a")
	require.Error(t, err)
	require.True(t, ignitekv.IsKeyNotFound(err))

	require.NoError(t, inst.Close())

	reopened, err := ignitekv.Open("ignitekv-test", options.WithDataDir(dir))
	require.NoError(t, err)
	defer reopened.Close()

	_, found, err = reopened.Get("a")
	require.NoError(t, err)
	require.False(t, found)
}
