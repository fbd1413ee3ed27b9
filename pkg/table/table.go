// Package table holds the record-table model and the pure transformation
// stages applied to it: normalization, column reduction and sorting.
// Every stage returns a new Table and never mutates its input.
package table

import "strings"

// Cell is one table value. Null marks a position the extractor reported
// as missing, which is distinct from an empty string.
type Cell struct {
	Value string
	Null  bool
}

// Str returns a non-null cell
func Str(v string) Cell {
	return Cell{Value: v}
}

// NullCell is a missing value
var NullCell = Cell{Null: true}

// Empty reports whether the cell is null or blank after trimming
func (c Cell) Empty() bool {
	return c.Null || strings.TrimSpace(c.Value) == ""
}

// String returns the cell value, or "" for null
func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Value
}

// RawRow is an ordered sequence of cells as extracted
type RawRow []Cell

// Table is an ordered sequence of rows addressed by position only
type Table []RawRow

// FromStrings builds a table of non-null cells
func FromStrings(rows [][]string) Table {
	t := make(Table, len(rows))
	for i, row := range rows {
		r := make(RawRow, len(row))
		for j, v := range row {
			r[j] = Str(v)
		}
		t[i] = r
	}
	return t
}

// Strings returns the cell values, with null rendered as ""
func (t Table) Strings() [][]string {
	out := make([][]string, len(t))
	for i, row := range t {
		r := make([]string, len(row))
		for j, c := range row {
			r[j] = c.String()
		}
		out[i] = r
	}
	return out
}

// Width returns the length of the longest row
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		w = max(w, len(row))
	}
	return w
}

// Clone returns a deep copy
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append(RawRow(nil), row...)
	}
	return out
}

// At returns the cell at row i, column j, or NullCell when out of range
func (t Table) At(i, j int) Cell {
	if i < 0 || i >= len(t) || j < 0 || j >= len(t[i]) {
		return NullCell
	}
	return t[i][j]
}
