// Package extract recovers raw statement rows from a PDF document. Each page
// contributes its detected tables; a page without tables falls back to its
// text lines.
package extract

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// ErrExtractionEmpty is returned when no page yields a table or a
// multi-field text line
var ErrExtractionEmpty = errors.New("no table or structured text found in document")

// Stats describes where the recovered rows came from
type Stats struct {
	Pages      int
	TablePages int
	TextPages  int
	Tables     int
	Rows       int
}

// Recoverer extracts raw rows from documents
type Recoverer struct {
	tableOpts []pdf.TableExtractionOption
	textOpts  []pdf.TextExtractionOption
	log       logrus.FieldLogger
}

// Option configures a Recoverer
type Option func(*Recoverer)

// WithTableOptions passes options to per-page table detection
func WithTableOptions(opts ...pdf.TableExtractionOption) Option {
	return func(r *Recoverer) {
		r.tableOpts = append(r.tableOpts, opts...)
	}
}

// WithTextOptions passes options to the text-line fallback
func WithTextOptions(opts ...pdf.TextExtractionOption) Option {
	return func(r *Recoverer) {
		r.textOpts = append(r.textOpts, opts...)
	}
}

// WithLogger sets the logger for per-page progress
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Recoverer) {
		r.log = l
	}
}

// New returns a Recoverer
func New(opts ...Option) *Recoverer {
	r := &Recoverer{log: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecoverFile opens path, recovers its rows and always closes the document
func (r *Recoverer) RecoverFile(path string) ([]table.RawRow, Stats, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer doc.Close()

	return r.Recover(doc)
}

// Recover walks the pages in order. Rows keep page order and, within a
// page, table order. The caller owns doc.
func (r *Recoverer) Recover(doc pdf.Document) ([]table.RawRow, Stats, error) {
	var rows []table.RawRow
	stats := Stats{Pages: doc.PageCount()}

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			return nil, stats, errors.Wrap(err, "extract")
		}
		log := r.log.WithField("page", page.GetPageNumber())

		tables := nonEmptyTables(page.ExtractTables(r.tableOpts...))
		if len(tables) > 0 {
			before := len(rows)
			for _, t := range tables {
				for _, cells := range t.Rows {
					rows = append(rows, rowFromCells(cells))
				}
			}
			stats.TablePages++
			stats.Tables += len(tables)
			log.WithFields(logrus.Fields{
				"tables": len(tables),
				"rows":   len(rows) - before,
			}).Debug("recovered page tables")
			continue
		}

		lineRows := SplitTextLines(page.ExtractText(r.textOpts...))
		if len(lineRows) > 0 {
			stats.TextPages++
		}
		rows = append(rows, lineRows...)
		log.WithFields(logrus.Fields{
			"fallback": "text",
			"rows":     len(lineRows),
		}).Info("no tables on page, using text lines")
	}

	stats.Rows = len(rows)
	if len(rows) == 0 {
		return nil, stats, ErrExtractionEmpty
	}
	return rows, stats, nil
}

func nonEmptyTables(tables []pdf.Table) []pdf.Table {
	var out []pdf.Table
	for _, t := range tables {
		if len(t.Rows) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func rowFromCells(cells []string) table.RawRow {
	row := make(table.RawRow, len(cells))
	for i, c := range cells {
		row[i] = table.Str(c)
	}
	return row
}

// SplitTextLines turns page text into rows. Blank lines are skipped; a line
// is split on tabs when it has one, otherwise on runs of whitespace. Only
// lines with more than one field are kept.
func SplitTextLines(text string) []table.RawRow {
	var rows []table.RawRow
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var fields []string
		if strings.Contains(line, "\t") {
			fields = strings.Split(line, "\t")
		} else {
			fields = strings.Fields(line)
		}
		if len(fields) > 1 {
			rows = append(rows, rowFromCells(fields))
		}
	}
	return rows
}
