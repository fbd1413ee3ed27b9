package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// row builds a reduced-layout record: time, kind, direction, method, amount, party
func row(amount, direction string) []string {
	return []string{"2024-01-05 10:00", "商户消费", direction, "零钱", amount, "Shop"}
}

func newEngine() *Engine {
	return NewEngine(table.DefaultSchema(), DefaultRules())
}

func colorsOf(d *Directives, r int) map[int]Color {
	out := map[int]Color{}
	for col := 1; col <= 6; col++ {
		if c := d.Get(r, col); c != None {
			out[col] = c
		}
	}
	return out
}

var redBand = map[int]Color{1: Red, 3: Red, 5: Red, 6: Red}

func TestRunOfThreeIsBanded(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("80", "支出"),
		row("80", "支出"),
		row("80", "支出"),
		row("60", "支出"),
	})

	d, report := newEngine().Annotate(tbl)
	for r := 1; r <= 3; r++ {
		assert.Equal(t, redBand, colorsOf(d, r), "row %d", r)
	}
	assert.Empty(t, colorsOf(d, 4))
	assert.Equal(t, 1, report.Runs)
	assert.Equal(t, 3, report.RedRows)
}

func TestRunBrokenByMissingExpenseFlag(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("80", "支出"),
		row("80", "收入"),
	})

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, report.Runs)
}

func TestRunRequiresMinimumAmount(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("79.99", "支出"),
		row("79.99", "支出"),
	})

	d, _ := newEngine().Annotate(tbl)
	assert.Equal(t, 0, d.Len())
}

func TestRunsDoNotOverlap(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("100", "支出"),
		row("100.00", "支出"),
		row("200", "支出"),
		row("200", "支出"),
		row("200", "/"),
	})

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, 2, report.Runs)
	assert.Equal(t, 4, report.RedRows)
	assert.Empty(t, colorsOf(d, 5))
}

func TestRunBrokenByUnparseableAmount(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("90", "支出"),
		row("n/a", "支出"),
		row("90", "支出"),
	})

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 1, report.Unparsed)
}

func TestHighlightLargeAmount(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("5000", "收入"),
		row("4999.99", "支出"),
		row("¥12,000.00", "支出"),
	})

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, map[int]Color{5: Orange, 6: Orange}, colorsOf(d, 1))
	assert.Empty(t, colorsOf(d, 2))
	assert.Equal(t, map[int]Color{5: Orange, 6: Orange}, colorsOf(d, 3))
	assert.Equal(t, 2, report.OrangeRows)
}

func TestRedIsNeverDowngraded(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("5000", "支出"),
		row("5000", "支出"),
	})

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, redBand, colorsOf(d, 1))
	assert.Equal(t, redBand, colorsOf(d, 2))
	assert.Equal(t, 0, report.OrangeRows)
	assert.Equal(t, 0, d.Count(Orange))
}

func TestAnnotateIsDeterministic(t *testing.T) {
	tbl := table.FromStrings([][]string{
		row("80", "支出"),
		row("80", "支出"),
		row("9000", "收入"),
		row("junk", "支出"),
		row("120", "支出"),
		row("120", "支出"),
	})

	first, _ := newEngine().Annotate(tbl)
	second, _ := newEngine().Annotate(tbl)
	assert.Equal(t, first.List(), second.List())
}

func TestAnnotateShortRows(t *testing.T) {
	tbl := table.Table{
		{table.Str("2024-01-05")},
		{},
	}

	d, report := newEngine().Annotate(tbl)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 2, report.Unparsed)
}

func TestCustomSchemaColumns(t *testing.T) {
	schema := table.DefaultSchema()
	schema.Direction, schema.Amount = schema.Amount, schema.Direction
	require.NoError(t, schema.Validate())

	e := NewEngine(schema, DefaultRules())
	assert.Equal(t, []int{1, 5, 3, 6}, e.RedColumns())
	assert.Equal(t, []int{3, 6}, e.OrangeColumns())
}

func TestDirectivesList(t *testing.T) {
	d := NewDirectives()
	assert.True(t, d.Set(2, 5, Orange))
	assert.True(t, d.Set(1, 6, Red))
	assert.True(t, d.Set(1, 1, Red))
	assert.False(t, d.Set(1, 1, Orange))
	assert.True(t, d.Set(2, 5, None))

	assert.Equal(t, []StyleDirective{
		{Row: 1, Column: 1, Color: Red},
		{Row: 1, Column: 6, Color: Red},
	}, d.List())
	assert.Equal(t, "FF0000", Red.RGB())
	assert.Equal(t, "FF9900", Orange.RGB())
	assert.Equal(t, "", None.RGB())
}
