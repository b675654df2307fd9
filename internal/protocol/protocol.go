// Package protocol converts between the wire's RESP-2 array-of-bulk-
// strings frames and the three commands the engine understands: set,
// get, remove. The server (internal/server) decodes incoming frames
// through redcon and hands the raw args to ParseArgs; the client
// (internal/client) builds outgoing frames with EncodeRequest and reads
// back a reply with ReadReply.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ignitekv/ignitekv/pkg/errors"
)

// Kind names a client request.
type Kind string

const (
	KindSet    Kind = "set"
	KindGet    Kind = "get"
	KindRemove Kind = "remove"
)

// Command is a decoded client request.
type Command struct {
	Kind  Kind
	Key   string
	Value string // only meaningful for KindSet
}

// ParseArgs validates a RESP-2 array's bulk-string arguments and decodes
// them into a Command. args[0] is the command name; each command is
// checked against the exact arity it requires.
func ParseArgs(args [][]byte) (Command, error) {
	if len(args) == 0 {
		return Command{}, errors.NewProtocolParseError("empty command")
	}

	name := strings.ToLower(string(args[0]))
	switch Kind(name) {
	case KindSet:
		if len(args) != 3 {
			return Command{}, errors.NewProtocolParseError("set requires exactly 2 arguments: key value")
		}
		return Command{Kind: KindSet, Key: string(args[1]), Value: string(args[2])}, nil

	case KindGet:
		if len(args) != 2 {
			return Command{}, errors.NewProtocolParseError("get requires exactly 1 argument: key")
		}
		return Command{Kind: KindGet, Key: string(args[1])}, nil

	case KindRemove:
		if len(args) != 2 {
			return Command{}, errors.NewProtocolParseError("remove requires exactly 1 argument: key")
		}
		return Command{Kind: KindRemove, Key: string(args[1])}, nil

	default:
		return Command{}, errors.NewProtocolParseError(fmt.Sprintf("unknown command %q", name))
	}
}

// EncodeRequest renders cmd as a RESP-2 array of bulk strings, the
// frame the client writes to the wire.
func EncodeRequest(cmd Command) []byte {
	var args []string
	switch cmd.Kind {
	case KindSet:
		args = []string{string(KindSet), cmd.Key, cmd.Value}
	case KindGet:
		args = []string{string(KindGet), cmd.Key}
	case KindRemove:
		args = []string{string(KindRemove), cmd.Key}
	}
	return encodeArray(args)
}

func encodeArray(args []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(args))
	for _, a := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(a), a)
	}
	return []byte(b.String())
}

// ReplyKind names the shape of a server response.
type ReplyKind string

const (
	ReplySimpleString ReplyKind = "simple"
	ReplyBulkString   ReplyKind = "bulk"
	ReplyError        ReplyKind = "error"
	ReplyNull         ReplyKind = "null"
)

// Reply is a decoded server response.
type Reply struct {
	Kind  ReplyKind
	Value string
}

// ReadReply parses exactly one RESP-2 reply from r: a simple string
// ("+..."), an error ("-..."), a bulk string ("$len\r\n...") or a null
// bulk string ("$-1\r\n"), the distinguished response for a get miss.
func ReadReply(r *bufio.Reader) (Reply, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Reply{}, err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return Reply{}, io.ErrUnexpectedEOF
	}

	switch line[0] {
	case '+':
		return Reply{Kind: ReplySimpleString, Value: line[1:]}, nil

	case '-':
		return Reply{Kind: ReplyError, Value: line[1:]}, nil

	case '$':
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			return Reply{}, fmt.Errorf("malformed bulk string length %q: %w", line[1:], err)
		}
		if n < 0 {
			return Reply{Kind: ReplyNull}, nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Reply{}, err
		}
		return Reply{Kind: ReplyBulkString, Value: string(buf[:n])}, nil

	default:
		return Reply{}, fmt.Errorf("unexpected reply type %q", line[0])
	}
}
