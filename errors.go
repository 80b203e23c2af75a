package xlrw

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates a file extension no backend can open.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrUnsupported indicates an operation the backend cannot perform.
var ErrUnsupported = errors.New("operation not supported by backend")

// ErrRowFlushed indicates a streaming write to a row already flushed to the stream.
var ErrRowFlushed = errors.New("row already flushed")

// ErrSheetNotFound indicates a sheet name missing from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrClosed indicates use of a workbook after Close.
var ErrClosed = errors.New("workbook closed")

// BackendError reports a failed operation on a given backend.
type BackendError struct {
	Op      string // "open", "write", "copy", ...
	Backend Backend
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s (%s backend): %v", e.Op, e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a new BackendError.
func NewBackendError(op string, backend Backend, err error) *BackendError {
	return &BackendError{
		Op:      op,
		Backend: backend,
		Err:     err,
	}
}

func unsupported(op string, backend Backend) error {
	return NewBackendError(op, backend, ErrUnsupported)
}
