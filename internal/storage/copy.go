package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ignitekv/ignitekv/pkg/errors"
)

// CopyRecord streams exactly length raw bytes, starting at offset, from
// the segment file at path into w. Compaction uses this instead of
// decode-then-re-encode: the record bytes a live Set already occupies
// are already a valid self-delimited record, so the fastest and
// simplest way to preserve them is a raw copy.
func CopyRecord(w *Writer, path string, offset, length int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.ClassifyFileOpenError(err, filepath.Dir(path), filepath.Base(path))
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to record during compaction").
			WithPath(path).WithOffset(offset)
	}

	return io.CopyN(w, f, length)
}
