package xlrw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createTemplateRow writes a styled, linked, merged row 1 with a formula.
func createTemplateRow(t *testing.T) string {
	t.Helper()
	return createWorkbook(t, func(f *excelize.File) {
		bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		f.SetSheetRow("Sheet1", "A1", &[]any{"x", 2, 4, "merged"})
		f.SetCellFormula("Sheet1", "C1", "B1*2")
		f.SetCellStyle("Sheet1", "A1", "A1", bold)
		f.SetCellHyperLink("Sheet1", "A1", "https://example.com", "External")
		f.MergeCell("Sheet1", "D1", "E1")
		f.SetRowHeight("Sheet1", 1, 30)
	})
}

func openRewriter(t *testing.T, path string, opts ...Option) *ExcelRewriter {
	t.Helper()
	w, err := OpenExcelRewriter(path, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func mergeRefs(t *testing.T, f *excelize.File) []string {
	t.Helper()
	cells, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	var refs []string
	for _, mc := range cells {
		refs = append(refs, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	return refs
}

func TestCopyRow_Repeat(t *testing.T) {
	w := openRewriter(t, createTemplateRow(t))
	require.NoError(t, w.CopyRow(0, 4, 3, DefaultCopyPolicy()))

	f := reopen(t, w.Write)
	boldID, err := f.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	for _, row := range []string{"5", "6", "7"} {
		v, _ := f.GetCellValue("Sheet1", "A"+row)
		assert.Equal(t, "x", v)
		v, _ = f.GetCellValue("Sheet1", "B"+row)
		assert.Equal(t, "2", v)
		formula, _ := f.GetCellFormula("Sheet1", "C"+row)
		assert.Equal(t, "B"+row+"*2", formula)

		style, _ := f.GetCellStyle("Sheet1", "A"+row)
		assert.Equal(t, boldID, style)
		ok, link, _ := f.GetCellHyperLink("Sheet1", "A"+row)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com", link)
	}
	height, err := f.GetRowHeight("Sheet1", 6)
	require.NoError(t, err)
	assert.Equal(t, 30.0, height)

	empty, _ := f.GetCellValue("Sheet1", "A8")
	assert.Equal(t, "", empty)
	assert.ElementsMatch(t, []string{"D1:E1", "D5:E5", "D6:E6", "D7:E7"}, mergeRefs(t, f))
}

func TestCopyRow_MultiRowFormulaCollapses(t *testing.T) {
	path := createWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", 1)
		f.SetCellValue("Sheet1", "A2", 2)
		f.SetCellValue("Sheet1", "A3", 3)
		f.SetCellFormula("Sheet1", "A4", "A1+A2+A3")
	})
	w := openRewriter(t, path)
	require.NoError(t, w.CopyRow(3, 9, 1, DefaultCopyPolicy()))

	require.True(t, w.Row(9))
	assert.Equal(t, "A10+A10+A10", w.Cell(0).Formula())
}

func TestCopyRows_Overlapping(t *testing.T) {
	path := createWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "a")
		f.SetCellValue("Sheet1", "A2", "b")
	})
	w := openRewriter(t, path)
	require.NoError(t, w.CopyRows(0, 1, 1, 1, DefaultCopyPolicy()))

	var got []string
	for w.Next() {
		got = append(got, w.Cell(0).TextOfEmpty())
	}
	assert.Equal(t, []string{"a", "a", "b"}, got)
}

func TestCopyRows_BlockRepeat(t *testing.T) {
	path := createWorkbook(t, func(f *excelize.File) {
		f.SetSheetRow("Sheet1", "A1", &[]any{"head", 1})
		f.SetSheetRow("Sheet1", "A2", &[]any{"tail", 2})
	})
	w := openRewriter(t, path)
	require.NoError(t, w.CopyRows(0, 1, 2, 2, DefaultCopyPolicy()))

	assert.Equal(t, 5, w.LastRowIndex())
	require.True(t, w.Row(4))
	assert.Equal(t, "head", w.Cell(0).TextOfEmpty())
	require.True(t, w.Row(5))
	assert.Equal(t, 2.0, w.Cell(1).Value(false))
}

func TestCopyRow_ValuesOnly(t *testing.T) {
	w := openRewriter(t, createTemplateRow(t))
	policy := DefaultCopyPolicy()
	policy.CopyFormula = false
	policy.CopyMerged = false
	require.NoError(t, w.CopyRow(0, 2, 1, policy))

	require.True(t, w.Row(2))
	assert.Equal(t, "", w.Cell(2).Formula())
	assert.Equal(t, 4.0, w.Cell(2).Value(false))
	assert.Len(t, w.Merges(), 1)
}

func TestCopyRow_HyperlinkMerge(t *testing.T) {
	path := createWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "source")
		f.SetCellValue("Sheet1", "A3", "dest")
		f.SetCellHyperLink("Sheet1", "A3", "https://keep.example", "External")
	})

	policy := DefaultCopyPolicy()
	policy.MergeHyperlink = true
	w := openRewriter(t, path)
	require.NoError(t, w.CopyRow(0, 2, 1, policy))
	require.True(t, w.Row(2))
	link, ok := w.Cell(0).Link()
	assert.True(t, ok)
	assert.Equal(t, "https://keep.example", link)
	assert.Equal(t, "source", w.Cell(0).TextOfEmpty())

	replace := openRewriter(t, path)
	require.NoError(t, replace.CopyRow(0, 2, 1, DefaultCopyPolicy()))
	require.True(t, replace.Row(2))
	_, ok = replace.Cell(0).Link()
	assert.False(t, ok)
}

func TestCopyRows_InvalidArguments(t *testing.T) {
	w := openRewriter(t, createTemplateRow(t))
	assert.Error(t, w.CopyRows(2, 1, 5, 1, DefaultCopyPolicy()))
	assert.Error(t, w.CopyRows(-1, 0, 5, 1, DefaultCopyPolicy()))
	assert.NoError(t, w.CopyRows(0, 0, 5, 0, DefaultCopyPolicy()))
	assert.Equal(t, 0, w.LastRowIndex())
}

func TestCopyRows_LegacyUnsupported(t *testing.T) {
	wb := &workbook{backend: Legacy, opts: defaultOptions()}
	w := &SheetWriter{SheetReader: newSheetReader(wb, "Sheet1"), rownum: NewRownum(0)}
	err := w.CopyRows(0, 0, 1, 1, DefaultCopyPolicy())
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestAnchoredMerges(t *testing.T) {
	merges := []Range{RangeOf("A1:B2"), RangeOf("C3:D3"), RangeOf("A5:A9")}
	assert.Equal(t, []Range{RangeOf("C3:D3")}, anchoredMerges(merges, 1, 3))
	assert.Empty(t, anchoredMerges(merges, 9, 9))
}

func TestDestinationLink(t *testing.T) {
	policy := DefaultCopyPolicy()
	link, ok := destinationLink(policy, "")
	assert.True(t, ok)
	assert.Equal(t, "", link)

	policy.MergeHyperlink = true
	_, ok = destinationLink(policy, "")
	assert.False(t, ok)
	link, ok = destinationLink(policy, "Sheet1!A1")
	assert.True(t, ok)
	assert.Equal(t, "Sheet1!A1", link)

	policy.CopyHyperlink = false
	_, ok = destinationLink(policy, "Sheet1!A1")
	assert.False(t, ok)
}
