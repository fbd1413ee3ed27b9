package sheet

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pyhub-apps/pdf2xlsx/pkg/annotate"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

func sampleTable() table.Table {
	return table.Table{
		{table.Str("2024-01-05 10:00"), table.Str("商户消费"), table.Str("支出"), table.Str("零钱"), table.Str("80.00"), table.Str("Shop")},
		{table.Str("2024-01-04 09:00"), table.Str("转账"), table.Str("收入"), table.NullCell, table.Str("5000"), table.Str("Friend")},
	}
}

func openBytes(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func fontColor(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle("Sheet1", cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if style.Font == nil {
		return ""
	}
	return style.Font.Color
}

func horizontal(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle("Sheet1", cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if style.Alignment == nil {
		return ""
	}
	return style.Alignment.Horizontal
}

func TestBytesWritesValuesVerbatim(t *testing.T) {
	data, err := NewWriter(DefaultLayout()).Bytes(sampleTable(), nil)
	require.NoError(t, err)

	f := openBytes(t, data)
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-05 10:00", "商户消费", "支出", "零钱", "80.00", "Shop"}, rows[0])
	assert.Equal(t, "", rows[1][3])

	// Amounts stay text
	cellType, err := f.GetCellType("Sheet1", "E1")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)
}

func TestColumnWidthsAndAlignment(t *testing.T) {
	data, err := NewWriter(DefaultLayout()).Bytes(sampleTable(), nil)
	require.NoError(t, err)
	f := openBytes(t, data)

	widthA, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.InDelta(t, 2*8.43, widthA, 0.01)

	widthC, err := f.GetColWidth("Sheet1", "C")
	require.NoError(t, err)
	assert.InDelta(t, 5, widthC, 0.01)

	widthF, err := f.GetColWidth("Sheet1", "F")
	require.NoError(t, err)
	assert.InDelta(t, 3*8.43, widthF, 0.01)

	assert.Equal(t, "left", horizontal(t, f, "A1"))
	assert.Equal(t, "center", horizontal(t, f, "C2"))
	assert.Equal(t, "", horizontal(t, f, "B1"))
}

func TestDirectivesBecomeFontColors(t *testing.T) {
	d := annotate.NewDirectives()
	for _, col := range []int{1, 3, 5, 6} {
		d.Set(1, col, annotate.Red)
	}
	d.Set(2, 5, annotate.Orange)
	d.Set(2, 6, annotate.Orange)

	data, err := NewWriter(DefaultLayout()).Bytes(sampleTable(), d)
	require.NoError(t, err)
	f := openBytes(t, data)

	for _, cell := range []string{"A1", "C1", "E1", "F1"} {
		assert.True(t, strings.HasSuffix(fontColor(t, f, cell), "FF0000"), "cell %s", cell)
	}
	for _, cell := range []string{"E2", "F2"} {
		assert.True(t, strings.HasSuffix(fontColor(t, f, cell), "FF9900"), "cell %s", cell)
	}
	for _, cell := range []string{"B1", "A2"} {
		color := fontColor(t, f, cell)
		assert.False(t, strings.HasSuffix(color, "FF0000") || strings.HasSuffix(color, "FF9900"), "cell %s", cell)
	}

	// Color and alignment combine on the same cell
	assert.Equal(t, "left", horizontal(t, f, "A1"))
	assert.Equal(t, "center", horizontal(t, f, "C1"))
}

func TestWriteFileUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx")
	tbl := sampleTable()

	err := NewWriter(DefaultLayout()).WriteFile(path, tbl, nil)
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "save", renderErr.Op)
	assert.NotNil(t, errors.Unwrap(err))

	// The table survives for a retry elsewhere
	retry := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, NewWriter(DefaultLayout()).WriteFile(retry, tbl, nil))
}

func TestWriteAndCustomSheetName(t *testing.T) {
	layout := DefaultLayout()
	layout.SheetName = "Statement"

	var buf bytes.Buffer
	require.NoError(t, NewWriter(layout).Write(&buf, sampleTable(), nil))

	f := openBytes(t, buf.Bytes())
	assert.Equal(t, []string{"Statement"}, f.GetSheetList())
}

func TestEmptyTable(t *testing.T) {
	data, err := NewWriter(DefaultLayout()).Bytes(nil, nil)
	require.NoError(t, err)

	f := openBytes(t, data)
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
