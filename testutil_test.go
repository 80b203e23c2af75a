package xlrw

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createWorkbook builds an .xlsx fixture under t.TempDir.
func createWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// reopen writes a workbook to memory and opens the bytes with excelize.
func reopen(t *testing.T, write func(w io.Writer) error) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, write(&buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestWriter(t *testing.T, opts ...Option) *XSheetWriter {
	t.Helper()
	w, err := NewXSheetWriter(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func newTestStream(t *testing.T, opts ...Option) *SSheetWriter {
	t.Helper()
	w, err := NewSSheetWriter(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

// cellAt selects a cell by address.
func cellAt(c *Cursor, addr string) *Cursor {
	return c.CellAt(PositionOf(addr))
}
