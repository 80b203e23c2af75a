package xlrw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createOrders writes a header row and data rows 2, 4 and 6, leaving
// rows 3 and 5 absent.
func createOrders(t *testing.T) string {
	t.Helper()
	return createWorkbook(t, func(f *excelize.File) {
		f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Amount", " Customer Name "})
		f.SetSheetRow("Sheet1", "A2", &[]any{"Ada", 150, "Acme"})
		f.SetSheetRow("Sheet1", "A4", &[]any{"Bob", 50})
		f.SetSheetRow("Sheet1", "A6", &[]any{"Cy", 300, "Zeta"})
		f.NewSheet("Lists")
		f.SetSheetRow("Lists", "A1", &[]any{"A", "A"})
	})
}

func openOrders(t *testing.T) *ExcelReader {
	t.Helper()
	r, err := OpenExcelReader(createOrders(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSheetReader_NextSkipsGaps(t *testing.T) {
	r := openOrders(t)

	var rows []int
	for r.Next() {
		rows = append(rows, r.RowIndex())
	}
	assert.Equal(t, []int{0, 1, 3, 5}, rows)
	assert.False(t, r.Next())
	assert.Equal(t, 6, r.RowIndex())
	assert.Equal(t, 5, r.LastRowIndex())

	r.Reset()
	assert.True(t, r.Next())
	assert.Equal(t, 0, r.RowIndex())
}

func TestSheetReader_Row(t *testing.T) {
	r := openOrders(t)
	assert.True(t, r.Row(3))
	assert.Equal(t, "Bob", r.Cell(0).TextOfEmpty())
	assert.Equal(t, 1, r.LastColumnIndex())

	assert.False(t, r.Row(2))
	assert.Equal(t, -1, r.LastColumnIndex())
	assert.True(t, r.Cell(0).CellEmpty())
}

func TestSheetReader_Headers(t *testing.T) {
	r := openOrders(t)
	require.True(t, r.Row(0))

	headers := r.Headers()
	require.Len(t, headers, 3)
	assert.Equal(t, "Customer Name", headers[2].Label)
	assert.Equal(t, 2, headers[2].Index)
	assert.Equal(t, map[string]int{"Name": 0, "Amount": 1, "Customer Name": 2}, r.MapHeaders())
}

func TestSheetReader_MapHeadersDuplicateLabels(t *testing.T) {
	r := openOrders(t)
	require.NoError(t, r.UseSheet("Lists"))
	require.True(t, r.Row(0))
	assert.Equal(t, map[string]int{"A": 1}, r.MapHeaders())
}

func TestSheetReader_Records(t *testing.T) {
	r := openOrders(t)

	var records []*Record
	for rec := range r.Records(0) {
		records = append(records, rec)
	}
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, []any{"Ada", 150.0, "Acme"}, records[0].Values())
	assert.Equal(t, []any{"Bob", 50.0, nil}, records[1].Values())
	assert.Equal(t, 6, records[2].Row)
}

func TestSheetReader_RecordsStopEarly(t *testing.T) {
	r := openOrders(t)
	count := 0
	for range r.Records(0) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestSheetReader_FormattedValue(t *testing.T) {
	r := openOrders(t)
	require.True(t, r.Row(1))
	assert.Equal(t, "150", r.Cell(1).Value(true))
	assert.Equal(t, 150.0, r.Cell(1).Value(false))
}

func TestSheetReader_UseSheet(t *testing.T) {
	r := openOrders(t)
	assert.Equal(t, []string{"Sheet1", "Lists"}, r.Sheets())

	require.NoError(t, r.UseSheet("Lists"))
	assert.Equal(t, "Lists", r.Sheet())
	assert.Equal(t, -1, r.RowIndex())

	err := r.UseSheet("Missing")
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.Equal(t, "Lists", r.Sheet())
}

func TestSheetReader_Filter(t *testing.T) {
	r := openOrders(t)
	f, err := CompileFilter(`Amount > 100 && row["Customer Name"] != ""`)
	require.NoError(t, err)

	var names []any
	for rec, err := range r.Filter(0, f) {
		require.NoError(t, err)
		v, _ := rec.Get("Name")
		names = append(names, v)
	}
	assert.Equal(t, []any{"Ada", "Cy"}, names)
}

func TestSheetReader_FilterRownum(t *testing.T) {
	r := openOrders(t)
	f, err := CompileFilter(`rownum == 4`)
	require.NoError(t, err)

	var rows []int
	for rec, err := range r.Filter(0, f) {
		require.NoError(t, err)
		rows = append(rows, rec.Row)
	}
	assert.Equal(t, []int{4}, rows)
}

func TestSheetReader_FilterErrors(t *testing.T) {
	_, err := CompileFilter(`Amount >`)
	assert.Error(t, err)

	r := openOrders(t)
	f, err := CompileFilter(`Amount * 2`)
	require.NoError(t, err)
	for rec, err := range r.Filter(0, f) {
		assert.Nil(t, rec)
		assert.Error(t, err)
	}
}

func TestExcelReader_Errors(t *testing.T) {
	_, err := OpenExcelReader("does-not-exist.xlsx")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = OpenExcelReader(createOrders(t), WithSheet("Missing"), WithLogger(quietLogger()))
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}
