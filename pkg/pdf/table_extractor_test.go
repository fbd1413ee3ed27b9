package pdf_test

import (
	"reflect"
	"testing"

	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf/pdftest"
)

var statementRows = [][]string{
	{"Time", "Type", "Party"},
	{"2024-01-05", "out", "Shop"},
	{"2024-01-06", "in", "Cafe"},
}

func openFirstPage(t *testing.T, b *pdftest.Builder) pdf.Page {
	t.Helper()
	doc, err := pdf.Open(b.WriteFile(t, "doc.pdf"))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	t.Cleanup(func() { doc.Close() })

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	return page
}

func TestTableExtraction(t *testing.T) {
	b := pdftest.New()
	b.AddPage(612, 792).Grid(50, 700, []float64{100, 60, 80}, 20, 10, statementRows)
	page := openFirstPage(t, b)

	tables := page.ExtractTables()
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	if !reflect.DeepEqual(tables[0].Rows, statementRows) {
		t.Errorf("Unexpected rows:\n got  %v\n want %v", tables[0].Rows, statementRows)
	}

	bbox := tables[0].BBox
	if bbox.X0 < 49 || bbox.X0 > 51 || bbox.X1 < 289 || bbox.X1 > 291 {
		t.Errorf("Unexpected table bbox %+v", bbox)
	}
}

func TestTableExtractionMultipleTables(t *testing.T) {
	b := pdftest.New()
	b.AddPage(612, 792).
		Grid(50, 500, []float64{80, 80}, 20, 10, [][]string{{"lower", "table"}}).
		Grid(50, 700, []float64{80, 80}, 20, 10, [][]string{{"upper", "table"}, {"a", "b"}})
	page := openFirstPage(t, b)

	tables := page.ExtractTables()
	if len(tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(tables))
	}
	if tables[0].Rows[0][0] != "upper" || tables[1].Rows[0][0] != "lower" {
		t.Errorf("Expected tables in top-to-bottom order, got %v then %v", tables[0].Rows, tables[1].Rows)
	}
}

func TestTableExtractionEmptyCells(t *testing.T) {
	rows := [][]string{
		{"a", "", "c"},
		{"", "", ""},
	}
	b := pdftest.New()
	b.AddPage(612, 792).Grid(50, 700, []float64{60, 60, 60}, 20, 10, rows)
	page := openFirstPage(t, b)

	tables := page.ExtractTables()
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	if !reflect.DeepEqual(tables[0].Rows, rows) {
		t.Errorf("Unexpected rows %v", tables[0].Rows)
	}
}

func TestTableExtractionWithOptions(t *testing.T) {
	b := pdftest.New()
	b.AddPage(612, 792).Grid(50, 700, []float64{100, 60, 80}, 20, 10, statementRows)
	page := openFirstPage(t, b)

	testCases := []struct {
		name     string
		opts     []pdf.TableExtractionOption
		expected int
	}{
		{
			name:     "Line-based detection",
			opts:     []pdf.TableExtractionOption{pdf.WithTableStrategy(pdf.StrategyLines, pdf.StrategyLines)},
			expected: 1,
		},
		{
			name:     "Minimum size excludes short tables",
			opts:     []pdf.TableExtractionOption{pdf.WithMinTableSize(4)},
			expected: 0,
		},
		{
			name:     "Text-based detection",
			opts:     []pdf.TableExtractionOption{pdf.WithTableStrategy(pdf.StrategyText, pdf.StrategyText)},
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tables := page.ExtractTables(tc.opts...)
			if len(tables) != tc.expected {
				t.Errorf("Expected %d tables, got %d", tc.expected, len(tables))
			}
		})
	}
}

func TestTextOnlyPageHasNoTables(t *testing.T) {
	b := pdftest.New()
	b.AddPage(612, 792).
		Text(72, 700, 10, "2024-01-05 out 80.00").
		Text(72, 680, 10, "2024-01-06 in 12.50")
	page := openFirstPage(t, b)

	if tables := page.ExtractTables(); len(tables) != 0 {
		t.Errorf("Expected no ruled tables, got %d", len(tables))
	}
}

func TestTextStrategyColumns(t *testing.T) {
	b := pdftest.New()
	b.AddPage(612, 792).
		Text(72, 700, 10, "Time").Text(200, 700, 10, "Amount").
		Text(72, 680, 10, "2024-01-05").Text(200, 680, 10, "80.00").
		Text(72, 660, 10, "2024-01-06").Text(200, 660, 10, "12.50")
	page := openFirstPage(t, b)

	tables := page.ExtractTables(pdf.WithTableStrategy(pdf.StrategyText, pdf.StrategyText))
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	want := [][]string{
		{"Time", "Amount"},
		{"2024-01-05", "80.00"},
		{"2024-01-06", "12.50"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("Unexpected rows %v", tables[0].Rows)
	}
}
