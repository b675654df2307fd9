package server_test

import (
	"net"
	"testing"
	"time"

	"github.com/ignitekv/ignitekv/internal/client"
	"github.com/ignitekv/ignitekv/internal/kvengine"
	"github.com/ignitekv/ignitekv/internal/server"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/ignitekv/ignitekv/pkg/options"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.Addr = addr

	eng, err := kvengine.Open(&kvengine.Config{Logger: logger.Noop(), Options: &opts})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	srv := server.New(addr, eng, logger.Noop())
	go func() {
		srv.ListenAndServe()
	}()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond, "server never started accepting connections")

	return addr
}

func TestServeSetGetRemoveOverTheWire(t *testing.T) {
	addr := startServer(t)
	c := client.New(addr)

	require.NoError(t, c.Set("a", "1"))

	value, found, err := c.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", value)

	_, found, err = c.Get("missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.Remove("a"))

	err = c.Remove("a")
	require.ErrorIs(t, err, client.ErrKeyNotFound)
}
