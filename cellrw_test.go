package xlrw

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func selectCell(t *testing.T, w *SheetWriter, row, col int) *Cursor {
	t.Helper()
	require.NoError(t, w.RowOfNew(row))
	c, err := w.CellOfNew(col)
	require.NoError(t, err)
	return c
}

func TestCell_NumberRoundTrip(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteNumber(123.45))

	assert.Equal(t, 123.45, c.Value(false))
	n, ok := c.Number()
	assert.True(t, ok)
	assert.Equal(t, 123.45, n)
	assert.Equal(t, "123.45", c.TextOfEmpty())
	assert.Equal(t, Number, c.Type())
	assert.False(t, c.CellEmpty())
}

func TestCell_BlankKeepsStyle(t *testing.T) {
	w := newTestWriter(t)
	styleID, err := w.wb.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)

	c := selectCell(t, w.SheetWriter, 2, 1)
	require.NoError(t, c.WriteNumber(123.45))
	require.NoError(t, c.SetStyle(styleID))
	require.NoError(t, c.SetBlank())

	assert.True(t, c.CellEmpty())
	assert.Nil(t, c.Value(false))
	assert.Equal(t, styleID, c.StyleID())
	_, ok := c.Text()
	assert.False(t, ok)

	require.NoError(t, c.WriteText("x"))
	require.NoError(t, c.WriteText(""))
	assert.True(t, c.CellEmpty())
	assert.Equal(t, styleID, c.StyleID())
}

func TestCell_TextNeverScientific(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteNumber(1e21))
	assert.Equal(t, "1000000000000000000000", c.TextOfEmpty())

	require.NoError(t, c.WriteNumber(0.0000001))
	assert.Equal(t, "0.0000001", c.TextOfEmpty())
}

func TestCell_FormulaPlaceholder(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 4, 1)
	require.NoError(t, c.WriteFormula("{0}*2"))
	assert.Equal(t, "5*2", c.Formula())
	assert.Equal(t, Number, c.Type())
	assert.False(t, c.CellEmpty())
}

func TestCell_FormulaRebuild(t *testing.T) {
	w := newTestWriter(t, WithFormulaRebuild(true))
	c := selectCell(t, w.SheetWriter, 6, 2)
	require.NoError(t, c.WriteFormula("=A1*B1"))
	assert.Equal(t, "A7*B7", c.Formula())
	assert.Equal(t, "A{0}*B{0}", c.FormulaTemplate())

	plain := newTestWriter(t)
	c = selectCell(t, plain.SheetWriter, 6, 2)
	require.NoError(t, c.WriteFormula("A1*B1"))
	assert.Equal(t, "A1*B1", c.Formula())
}

func TestCell_FormulaReplacesValue(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteNumber(9))
	require.NoError(t, c.WriteFormula("1+1"))
	assert.Nil(t, c.Value(false))
	assert.Equal(t, "1+1", c.Formula())

	require.NoError(t, c.WriteText("plain"))
	assert.Equal(t, "", c.Formula())
	assert.Equal(t, "plain", c.Value(false))
}

func TestCell_Date(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteDate(day))

	assert.Equal(t, Date, c.Type())
	v, ok := c.Value(false).(time.Time)
	require.True(t, ok)
	assert.True(t, day.Equal(v), "got %v", v)
	got, ok := c.Date()
	assert.True(t, ok)
	assert.True(t, day.Equal(got))
	assert.Equal(t, "2024-03-15", c.TextOfEmpty())

	n, ok := c.Number()
	assert.True(t, ok)
	assert.Equal(t, 45366.0, n)
}

func TestCell_Percent(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WritePercent(0.25))

	assert.Equal(t, Percent, c.Type())
	assert.Equal(t, 0.25, c.Value(false))
	assert.Equal(t, "25.00%", c.Value(true))
}

func TestCell_Bool(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteBool(true))

	assert.Equal(t, true, c.Value(false))
	assert.Equal(t, "TRUE", c.TextOfEmpty())
	assert.Equal(t, "TRUE", c.ReadCell().Value)
}

func TestCell_WriteCell(t *testing.T) {
	source, sid := newSourceStyle(t)
	w := newTestWriter(t, WithStyleSource(source))

	require.NoError(t, w.WriteRow(0,
		TextCell("name").WithStyle(sid),
		NumberCell(3),
		FormulaCell("B{0}*2"),
		Cell{Type: Percent, Value: 0.5, SIndex: NoStyle},
		Cell{Type: Number, Value: 7, SIndex: NoStyle},
	))

	c := w.Cell(0)
	assert.Equal(t, "name", c.TextOfEmpty())
	style, err := w.wb.file.GetStyle(c.StyleID())
	require.NoError(t, err)
	assert.True(t, style.Font.Bold)

	assert.Equal(t, "B1*2", w.Cell(2).Formula())
	assert.Equal(t, Percent, w.Cell(3).Type())
	assert.Equal(t, 7.0, w.Cell(4).Value(false))
	assert.Equal(t, 1, w.Styles().Len())
}

func TestCell_ReadCell(t *testing.T) {
	path := createWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "label")
		f.SetCellValue("Sheet1", "B1", 2.5)
		f.SetCellValue("Sheet1", "C1", 5)
		f.SetCellFormula("Sheet1", "C1", "B1*2")
	})
	r, err := OpenExcelReader(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	defer r.Close()
	require.True(t, r.Row(0))

	assert.Equal(t, Cell{Type: Text, Value: "label"}, r.Cell(0).ReadCell())
	assert.Equal(t, Cell{Type: Number, Value: 2.5}, r.Cell(1).ReadCell())
	formula := r.Cell(2).ReadCell()
	assert.Equal(t, "B1*2", formula.Formula)
	assert.Equal(t, Number, formula.Type)
	assert.Equal(t, 5.0, formula.Value)
}

func TestCell_Links(t *testing.T) {
	w := newTestWriter(t)
	c := selectCell(t, w.SheetWriter, 0, 0)
	require.NoError(t, c.WriteLink("https://example.com", "site"))
	target, ok := c.Link()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", target)
	assert.Equal(t, "site", c.TextOfEmpty())

	c = w.Cell(1)
	require.NoError(t, c.WriteLink("Sheet1!A1", ""))
	target, ok = c.Link()
	assert.True(t, ok)
	assert.Equal(t, "Sheet1!A1", target)

	require.NoError(t, c.WriteLink("", ""))
	_, ok = c.Link()
	assert.False(t, ok)
}

func TestLinkType(t *testing.T) {
	assert.Equal(t, "External", linkType("https://example.com"))
	assert.Equal(t, "External", linkType("MAILTO:ops@example.com"))
	assert.Equal(t, "Location", linkType("Totals!B2"))
	assert.Equal(t, "None", linkType(""))
}

func TestCell_AbsentReadsNeverFail(t *testing.T) {
	w := newTestWriter(t)
	c := w.CellAt(PositionOf("Z99"))
	assert.True(t, c.CellEmpty())
	assert.Nil(t, c.Value(true))
	assert.Equal(t, "", c.Formula())
	assert.Equal(t, 0.0, c.NumberOrZero())
	_, ok := c.Date()
	assert.False(t, ok)

	c = w.CellAt(Position{})
	assert.True(t, c.CellEmpty())
}

func TestCell_WriteWithoutSelection(t *testing.T) {
	w := newTestWriter(t)
	err := w.WriteText("x")
	assert.Error(t, err)

	_, err = w.CellOfNew(0)
	assert.Error(t, err)
}

func TestCell_LegacyWritesUnsupported(t *testing.T) {
	wb := &workbook{backend: Legacy, opts: defaultOptions()}
	c := newCursor(wb, "Sheet1").CellAt(PositionOf("A1"))

	err := c.WriteText("x")
	assert.True(t, errors.Is(err, ErrUnsupported))
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, Legacy, be.Backend)

	_, err = newWorkbook(Legacy, defaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupported))
}
