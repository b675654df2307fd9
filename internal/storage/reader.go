package storage

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/ignitekv/ignitekv/pkg/errors"
)

// Reader wraps a segment file with a buffered reader that tracks the
// current byte offset, that is, how many bytes have been read through it
// since the last Seek. Decoder does not use this offset for record
// boundaries: encoding/json reads ahead in chunks, so Decoder takes each
// record's Offset/Length from the json.Decoder itself.
type Reader struct {
	file *os.File
	br   *bufio.Reader
	pos  int64
}

// NewReader opens path for reading and wraps it in a position-tracked
// buffered reader starting at offset 0.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, filepath.Dir(path), filepath.Base(path))
	}
	return &Reader{file: f, br: bufio.NewReader(f)}, nil
}

// Read implements io.Reader, advancing pos by the number of bytes read.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.pos += int64(n)
	return n, err
}

// ReadByte implements io.ByteReader, advancing pos by one on success.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err == nil {
		r.pos++
	}
	return b, err
}

// Pos reports the current byte offset within the underlying file.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Seek repositions the reader, discarding any buffered data, and resets
// the internal offset tracker to match.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	abs, err := r.file.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.br.Reset(r.file)
	r.pos = abs
	return abs, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
