// Package sheet renders an annotated table into a single-sheet workbook.
package sheet

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/pyhub-apps/pdf2xlsx/pkg/annotate"
	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// RenderError reports a workbook that could not be produced. The table
// that was being rendered is untouched and can be rendered again.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Layout fixes sheet geometry. Column numbers are 1-indexed.
type Layout struct {
	SheetName    string
	DefaultWidth float64

	// TimeColumn is widened by TimeWidthFactor and left-aligned
	TimeColumn      int
	TimeWidthFactor float64

	// NarrowColumn is set to NarrowWidth and centered
	NarrowColumn int
	NarrowWidth  float64

	// CounterpartyColumn is widened by CounterpartyWidthFactor
	CounterpartyColumn      int
	CounterpartyWidthFactor float64
}

// DefaultLayout returns the layout for the default statement schema
func DefaultLayout() Layout {
	return LayoutForSchema(table.DefaultSchema())
}

// LayoutForSchema places the styled columns on the schema's roles
func LayoutForSchema(s table.Schema) Layout {
	return Layout{
		SheetName:               "Sheet1",
		DefaultWidth:            8.43,
		TimeColumn:              s.Time + 1,
		TimeWidthFactor:         2,
		NarrowColumn:            s.Direction + 1,
		NarrowWidth:             5,
		CounterpartyColumn:      s.Counterparty + 1,
		CounterpartyWidthFactor: 3,
	}
}

// alignment returns the horizontal alignment of a column, or ""
func (l Layout) alignment(col int) string {
	switch col {
	case l.TimeColumn:
		return "left"
	case l.NarrowColumn:
		return "center"
	}
	return ""
}

// Writer renders tables with a fixed Layout
type Writer struct {
	layout Layout
	log    logrus.FieldLogger
}

// Option configures a Writer
type Option func(*Writer)

// WithLogger sets the writer's logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Writer) {
		w.log = l
	}
}

// NewWriter returns a Writer for layout
func NewWriter(layout Layout, opts ...Option) *Writer {
	w := &Writer{layout: layout, log: logging.Discard()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type styleKey struct {
	align string
	color string
}

// Render builds the workbook. There is no header row: row 1 holds the first
// record. Values are written verbatim as strings; null cells stay blank.
func (w *Writer) Render(t table.Table, d *annotate.Directives) (*excelize.File, error) {
	if d == nil {
		d = annotate.NewDirectives()
	}
	f := excelize.NewFile()
	sheet := w.layout.SheetName
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, &RenderError{Op: "sheet", Err: err}
		}
	}

	if err := w.setWidths(f); err != nil {
		f.Close()
		return nil, err
	}

	styles := make(map[styleKey]int)
	for i, row := range t {
		for j, c := range row {
			r, col := i+1, j+1
			cell, err := excelize.CoordinatesToCellName(col, r)
			if err != nil {
				f.Close()
				return nil, &RenderError{Op: "cell", Err: err}
			}
			if !c.Null {
				if err := f.SetCellStr(sheet, cell, c.Value); err != nil {
					f.Close()
					return nil, &RenderError{Op: "cell", Err: err}
				}
			}

			key := styleKey{align: w.layout.alignment(col), color: d.Get(r, col).RGB()}
			if key == (styleKey{}) {
				continue
			}
			id, ok := styles[key]
			if !ok {
				id, err = f.NewStyle(newStyle(key))
				if err != nil {
					f.Close()
					return nil, &RenderError{Op: "style", Err: err}
				}
				styles[key] = id
			}
			if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
				f.Close()
				return nil, &RenderError{Op: "style", Err: err}
			}
		}
	}

	w.log.WithFields(logrus.Fields{
		"rows":   len(t),
		"styles": len(styles),
	}).Debug("rendered sheet")
	return f, nil
}

func newStyle(key styleKey) *excelize.Style {
	style := &excelize.Style{}
	if key.align != "" {
		style.Alignment = &excelize.Alignment{Horizontal: key.align}
	}
	if key.color != "" {
		style.Font = &excelize.Font{Color: key.color}
	}
	return style
}

func (w *Writer) setWidths(f *excelize.File) error {
	l := w.layout
	widths := []struct {
		col   int
		width float64
	}{
		{l.TimeColumn, l.DefaultWidth * l.TimeWidthFactor},
		{l.NarrowColumn, l.NarrowWidth},
		{l.CounterpartyColumn, l.DefaultWidth * l.CounterpartyWidthFactor},
	}
	for _, cw := range widths {
		if cw.col < 1 || cw.width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(cw.col)
		if err != nil {
			return &RenderError{Op: "width", Err: err}
		}
		if err := f.SetColWidth(l.SheetName, name, name, cw.width); err != nil {
			return &RenderError{Op: "width", Err: err}
		}
	}
	return nil
}

// Write renders the workbook into out
func (w *Writer) Write(out io.Writer, t table.Table, d *annotate.Directives) error {
	f, err := w.Render(t, d)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return &RenderError{Op: "write", Err: err}
	}
	return nil
}

// Bytes renders the workbook into memory
func (w *Writer) Bytes(t table.Table, d *annotate.Directives) ([]byte, error) {
	f, err := w.Render(t, d)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &RenderError{Op: "write", Err: err}
	}
	return buf.Bytes(), nil
}

// WriteFile renders the workbook to path
func (w *Writer) WriteFile(path string, t table.Table, d *annotate.Directives) error {
	f, err := w.Render(t, d)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return &RenderError{Op: "save", Err: err}
	}
	return nil
}
