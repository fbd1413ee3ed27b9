// Package preview prints the first rows of a table as aligned text.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// DefaultRows is the number of rows shown when the caller asks for none
const DefaultRows = 10

// MaxCellWidth truncates long cells, measured in terminal columns
const MaxCellWidth = 24

// Render writes a header line with the table's dimensions followed by up
// to n rows. Column widths account for East Asian wide characters.
func Render(w io.Writer, title string, t table.Table, n int) error {
	if n <= 0 {
		n = DefaultRows
	}
	shown := t
	if len(shown) > n {
		shown = shown[:n]
	}

	if _, err := fmt.Fprintf(w, "%s: %d rows x %d columns\n", title, len(t), t.Width()); err != nil {
		return err
	}

	cells := make([][]string, len(shown))
	widths := make([]int, t.Width())
	for i, row := range shown {
		cells[i] = make([]string, len(row))
		for j, c := range row {
			v := strings.ReplaceAll(c.String(), "\n", " ")
			v = runewidth.Truncate(v, MaxCellWidth, "…")
			cells[i][j] = v
			widths[j] = max(widths[j], runewidth.StringWidth(v))
		}
	}

	for i, row := range cells {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%3d ", i+1)
		for j, v := range row {
			sb.WriteString("| ")
			sb.WriteString(runewidth.FillRight(v, widths[j]))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	if len(t) > len(shown) {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", len(t)-len(shown)); err != nil {
			return err
		}
	}
	return nil
}
