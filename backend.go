package xlrw

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend identifies the engine behind a workbook.
type Backend int

const (
	// Standard is the in-memory excelize workbook, readable and writable.
	Standard Backend = iota
	// Streaming writes rows through excelize's StreamWriter and keeps only
	// a window of recent rows in memory.
	Streaming
	// Legacy reads BIFF .xls files and cannot write.
	Legacy
)

func (b Backend) String() string {
	switch b {
	case Standard:
		return "standard"
	case Streaming:
		return "streaming"
	case Legacy:
		return "legacy"
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// CanWrite reports whether the backend accepts writes.
func (b Backend) CanWrite() bool {
	return b != Legacy
}

// BackendFor selects the backend for opening path by its extension.
func BackendFor(path string) (Backend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return Standard, nil
	case ".xls":
		return Legacy, nil
	}
	return Standard, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}
