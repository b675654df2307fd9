package protocol_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/ignitekv/ignitekv/internal/protocol"
	"github.com/stretchr/testify/require"
)

func TestParseArgsValidatesArity(t *testing.T) {
	_, err := protocol.ParseArgs([][]byte{[]byte("set"), []byte("k")})
	require.Error(t, err)

	cmd, err := protocol.ParseArgs([][]byte{[]byte("set"), []byte("k"), []byte("v")})
	require.NoError(t, err)
	require.Equal(t, protocol.KindSet, cmd.Kind)
	require.Equal(t, "k", cmd.Key)
	require.Equal(t, "v", cmd.Value)

	_, err = protocol.ParseArgs([][]byte{[]byte("unknown")})
	require.Error(t, err)
}

func TestEncodeRequestProducesRESP2Array(t *testing.T) {
	out := protocol.EncodeRequest(protocol.Command{Kind: protocol.KindGet, Key: "k"})
	require.Equal(t, "*2\r\n$3\r\nget\r\n$1\r\nk\r\n", string(out))
}

func TestReadReplyHandlesEveryFrameShape(t *testing.T) {
	cases := []struct {
		name string
		wire string
		want protocol.Reply
	}{
		{"simple", "+OK\r\n", protocol.Reply{Kind: protocol.ReplySimpleString, Value: "OK"}},
		{"bulk", "$5\r\nhello\r\n", protocol.Reply{Kind: protocol.ReplyBulkString, Value: "hello"}},
		{"null", "$-1\r\n", protocol.Reply{Kind: protocol.ReplyNull}},
		{"error", "-ERR KEY_NOT_FOUND key not found\r\n", protocol.Reply{Kind: protocol.ReplyError, Value: "ERR KEY_NOT_FOUND key not found"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply, err := protocol.ReadReply(bufio.NewReader(bytes.NewBufferString(tc.wire)))
			require.NoError(t, err)
			require.Equal(t, tc.want, reply)
		})
	}
}
