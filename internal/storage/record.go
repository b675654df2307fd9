package storage

import (
	"encoding/json"
	stdErrors "errors"
	"io"

	"github.com/ignitekv/ignitekv/pkg/errors"
)

// Kind distinguishes the two record types the log ever holds.
type Kind string

const (
	KindSet    Kind = "set"
	KindRemove Kind = "remove"
)

// Command is the tagged union the log stores, one JSON object per
// record, newline-delimited: a self-delimiting stream of values that a
// json.Decoder can replay without a separate length header, at the cost
// of per-record parsing overhead that a binary framing would avoid.
type Command struct {
	Kind  Kind   `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// NewSetCommand builds the record Set appends to the log.
func NewSetCommand(key, value string) Command {
	return Command{Kind: KindSet, Key: key, Value: value}
}

// NewRemoveCommand builds the tombstone record Remove appends to the log.
func NewRemoveCommand(key string) Command {
	return Command{Kind: KindRemove, Key: key}
}

// IsSet reports whether this command is a Set record.
func (c Command) IsSet() bool { return c.Kind == KindSet }

// IsRemove reports whether this command is a Remove record.
func (c Command) IsRemove() bool { return c.Kind == KindRemove }

// Encode appends cmd to w as a single newline-terminated JSON object and
// returns the number of bytes written, which becomes the record's
// Length in the index.
func Encode(w *Writer, cmd Command) (int64, error) {
	before := w.Pos()
	enc := json.NewEncoder(w)
	if err := enc.Encode(cmd); err != nil {
		return 0, errors.NewCodecError(err, "Encode")
	}
	if err := w.Flush(); err != nil {
		return 0, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to flush record to segment").WithOperation("Encode")
	}
	return w.Pos() - before, nil
}

// Decoder replays a stream of Commands from a segment, reporting the
// byte offset each record started at. Recovery uses this to rebuild the
// index, and Get uses it to decode the single record at an indexed
// offset.
type Decoder struct {
	r   *Reader
	dec *json.Decoder
}

// NewDecoder wraps r for streaming replay.
func NewDecoder(r *Reader) *Decoder {
	return &Decoder{r: r, dec: json.NewDecoder(r)}
}

// Next decodes the next Command, returning the byte offset it started
// at and its length in bytes, counting the newline Encode writes after
// it, so both match what Encode reported for the record. It returns
// io.EOF when the stream is exhausted. A partially written trailing
// record (the tail of a crash mid-write), which json.Decoder reports as
// io.ErrUnexpectedEOF, is also returned as io.EOF here; the caller is
// expected to treat EOF as the recovery boundary and tolerate a
// truncated last record.
func (d *Decoder) Next() (cmd Command, offset int64, length int64, err error) {
	offset = d.dec.InputOffset()
	var raw json.RawMessage
	if decErr := d.dec.Decode(&raw); decErr != nil {
		if stdErrors.Is(decErr, io.EOF) {
			return Command{}, offset, 0, io.EOF
		}
		if isUnexpectedEOF(decErr) {
			return Command{}, offset, 0, io.EOF
		}
		return Command{}, offset, 0, errors.NewCodecError(decErr, "Decode")
	}
	if decErr := json.Unmarshal(raw, &cmd); decErr != nil {
		return Command{}, offset, 0, errors.NewCodecError(decErr, "Decode")
	}
	// InputOffset stops right after the value; skip any leading whitespace
	// and take in the trailing newline, which may still be unread.
	length = int64(len(raw))
	offset = d.dec.InputOffset() - length
	next, _ := io.ReadAll(io.LimitReader(d.dec.Buffered(), 1))
	if len(next) == 0 {
		next, _ = d.r.br.Peek(1)
	}
	if len(next) == 1 && next[0] == '\n' {
		length++
	}
	return cmd, offset, length, nil
}

func isUnexpectedEOF(err error) bool {
	return stdErrors.Is(err, io.ErrUnexpectedEOF)
}

