package storage

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/ignitekv/ignitekv/pkg/errors"
)

// Writer wraps a segment file opened for append with a buffered writer
// that tracks the current byte offset. Every Set/Remove record appended
// to the active segment starts at Pos() before the write and ends at
// Pos() after it; the index stores that range.
type Writer struct {
	file *os.File
	bw   *bufio.Writer
	pos  int64
}

// NewWriter opens path for append and wraps it in a position-tracked
// buffered writer. pos is seeded from the file's current size so writes
// continue immediately after whatever the file already holds.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, filepath.Dir(path), filepath.Base(path))
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat segment file").
			WithPath(path).WithFileName(filepath.Base(path))
	}
	return &Writer{file: f, bw: bufio.NewWriter(f), pos: info.Size()}, nil
}

// Write implements io.Writer, advancing pos by the number of bytes
// written.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.bw.Write(p)
	w.pos += int64(n)
	return n, err
}

// Pos reports the current byte offset within the underlying file,
// including anything still sitting in the buffer.
func (w *Writer) Pos() int64 {
	return w.pos
}

// Flush pushes buffered bytes to the OS. Every record append flushes
// immediately so Get (which opens its own Reader) always sees what Set
// just wrote.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Sync flushes buffered bytes and fsyncs the file descriptor.
func (w *Writer) Sync() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(w.file.Name()), w.file.Name(), w.pos)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
