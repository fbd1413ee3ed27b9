package annotate

import (
	"sort"
)

// Color is the font-color class of a cell
type Color int

const (
	None Color = iota
	Red
	Orange
)

// String returns the color name
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Orange:
		return "orange"
	}
	return "none"
}

// RGB returns the spreadsheet font color, or "" for None
func (c Color) RGB() string {
	switch c {
	case Red:
		return "FF0000"
	case Orange:
		return "FF9900"
	}
	return ""
}

// StyleDirective colors one cell. Row and Column are 1-indexed spreadsheet
// coordinates; row 1 is the first data row.
type StyleDirective struct {
	Row    int
	Column int
	Color  Color
}

type cellRef struct {
	row, col int
}

// Directives holds at most one color per cell. Red is final: a red cell
// is never recolored.
type Directives struct {
	cells map[cellRef]Color
}

// NewDirectives returns an empty set
func NewDirectives() *Directives {
	return &Directives{cells: make(map[cellRef]Color)}
}

// Set colors a cell and reports whether the color was applied
func (d *Directives) Set(row, col int, c Color) bool {
	ref := cellRef{row, col}
	if d.cells[ref] == Red {
		return false
	}
	if c == None {
		delete(d.cells, ref)
		return true
	}
	d.cells[ref] = c
	return true
}

// Get returns the color of a cell
func (d *Directives) Get(row, col int) Color {
	return d.cells[cellRef{row, col}]
}

// Len returns the number of colored cells
func (d *Directives) Len() int {
	return len(d.cells)
}

// Count returns the number of cells with color c
func (d *Directives) Count(c Color) int {
	n := 0
	for _, v := range d.cells {
		if v == c {
			n++
		}
	}
	return n
}

// List returns the directives ordered by row, then column
func (d *Directives) List() []StyleDirective {
	out := make([]StyleDirective, 0, len(d.cells))
	for ref, c := range d.cells {
		out = append(out, StyleDirective{Row: ref.row, Column: ref.col, Color: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out
}
