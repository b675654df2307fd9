package errors

import stdErrors "errors"

// EngineError provides specialized error handling for storage-engine
// operations: Set, Get, Remove, and the recovery/compaction paths that
// back them. It follows the same embedding pattern as StorageError and
// IndexError so callers can use a single errors.As chain regardless of
// which layer raised the failure.
type EngineError struct {
	*baseError

	// key identifies which key the failing operation was acting on, when
	// applicable (Remove's KeyNotFound, Get's UnexpectedCommand).
	key string

	// segmentID and offset pinpoint the log location involved, useful for
	// UnexpectedCommand and Codec failures discovered mid-recovery.
	segmentID uint64
	offset    int64

	// operation names the engine call that failed (Set, Get, Remove, Open).
	operation string
}

// NewEngineError creates a new engine-specific error with the provided context.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the EngineError type.
func (ee *EngineError) WithMessage(msg string) *EngineError {
	ee.baseError.WithMessage(msg)
	return ee
}

// WithCode sets the error code while preserving the EngineError type.
func (ee *EngineError) WithCode(code ErrorCode) *EngineError {
	ee.baseError.WithCode(code)
	return ee
}

// WithDetail adds contextual information while maintaining the EngineError type.
func (ee *EngineError) WithDetail(key string, value any) *EngineError {
	ee.baseError.WithDetail(key, value)
	return ee
}

// WithKey records which key the failing operation was processing.
func (ee *EngineError) WithKey(key string) *EngineError {
	ee.key = key
	return ee
}

// WithSegmentID records which segment the failing read came from.
func (ee *EngineError) WithSegmentID(segmentID uint64) *EngineError {
	ee.segmentID = segmentID
	return ee
}

// WithOffset records the byte offset within the segment.
func (ee *EngineError) WithOffset(offset int64) *EngineError {
	ee.offset = offset
	return ee
}

// WithOperation records which engine operation was in progress.
func (ee *EngineError) WithOperation(operation string) *EngineError {
	ee.operation = operation
	return ee
}

// Key returns the key the failing operation was processing.
func (ee *EngineError) Key() string { return ee.key }

// SegmentID returns the segment id involved in the error.
func (ee *EngineError) SegmentID() uint64 { return ee.segmentID }

// Offset returns the byte offset within the segment.
func (ee *EngineError) Offset() int64 { return ee.offset }

// Operation returns the name of the engine operation that failed.
func (ee *EngineError) Operation() string { return ee.operation }

// IsEngineError checks if the given error is an EngineError or contains one
// in its error chain.
func IsEngineError(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee)
}

// AsEngineError extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// NewKeyNotFoundEngineError creates the error Remove returns when asked to
// delete a key with no live index entry.
func NewKeyNotFoundEngineError(key string) *EngineError {
	return NewEngineError(nil, ErrorCodeKeyNotFound, "key not found").
		WithKey(key).
		WithOperation("Remove")
}

// NewUnexpectedCommandError creates the error Get returns when the record at
// an indexed offset decodes to a Remove instead of a Set — a corrupted
// segment or a broken index invariant.
func NewUnexpectedCommandError(key string, segmentID uint64, offset int64) *EngineError {
	return NewEngineError(nil, ErrorCodeUnexpectedCommand, "record at indexed offset is not a Set command").
		WithKey(key).
		WithSegmentID(segmentID).
		WithOffset(offset).
		WithOperation("Get")
}

// NewCodecError wraps a record encode/decode failure.
func NewCodecError(err error, operation string) *EngineError {
	return NewEngineError(err, ErrorCodeCodec, "record encode/decode failed").
		WithOperation(operation)
}

// NewProtocolParseError wraps a malformed request frame.
func NewProtocolParseError(detail string) *EngineError {
	return NewEngineError(nil, ErrorCodeProtocolParse, "malformed request frame").
		WithDetail("detail", detail)
}
