// Package pdf2xlsx converts PDF payment statements into annotated Excel
// workbooks.
//
// A conversion recovers raw rows from the PDF, normalizes them into a
// rectangular table, drops the structural columns, sorts by counterparty and
// time, marks suspicious runs and large amounts, and renders the workbook.
package pdf2xlsx

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdf2xlsx/pkg/annotate"
	"github.com/pyhub-apps/pdf2xlsx/pkg/config"
	"github.com/pyhub-apps/pdf2xlsx/pkg/extract"
	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
	"github.com/pyhub-apps/pdf2xlsx/pkg/sheet"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// Re-export types used by callers of the converter
type (
	Table          = table.Table
	RawRow         = table.RawRow
	Cell           = table.Cell
	Schema         = table.Schema
	Rules          = annotate.Rules
	Directives     = annotate.Directives
	StyleDirective = annotate.StyleDirective
	Color          = annotate.Color
	Report         = annotate.Report
	RenderError    = sheet.RenderError
	Config         = config.Config
)

// Re-export sentinel errors
var (
	ErrExtractionEmpty = extract.ErrExtractionEmpty
	ErrSchema          = table.ErrSchema
)

// Result is everything produced by one conversion
type Result struct {
	// Extracted is the normalized table before columns are dropped
	Extracted  Table
	Table      Table
	Directives *Directives
	Report     Report
	Stats      extract.Stats
	Sort       table.SortStats
	Data       []byte
}

// Converter runs the pipeline with one configuration. It holds no state
// between calls and is safe for concurrent use.
type Converter struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	recoverer *extract.Recoverer
	engine    *annotate.Engine
	writer    *sheet.Writer
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger passed to every stage
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) {
		c.log = l
	}
}

// NewConverter returns a converter for cfg. A nil cfg uses the defaults.
func NewConverter(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}

	c := &Converter{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(c)
	}

	c.recoverer = extract.New(
		extract.WithTableOptions(cfg.TableOptions()...),
		extract.WithTextOptions(cfg.TextOptions()...),
		extract.WithLogger(c.log),
	)
	c.engine = annotate.NewEngine(cfg.Schema, cfg.Annotate, annotate.WithLogger(c.log))
	c.writer = sheet.NewWriter(cfg.Layout(), sheet.WithLogger(c.log))
	return c, nil
}

// Config returns the converter's configuration
func (c *Converter) Config() *config.Config {
	return c.cfg
}

// Recover reads the PDF at path and returns its normalized table
func (c *Converter) Recover(path string) (Table, extract.Stats, error) {
	raw, stats, err := c.recoverer.RecoverFile(path)
	if err != nil {
		return nil, stats, err
	}
	return c.normalize(raw, stats)
}

// RecoverReader is Recover for an in-memory document
func (c *Converter) RecoverReader(r io.ReaderAt, size int64) (Table, extract.Stats, error) {
	doc, err := pdf.OpenReader(r, size)
	if err != nil {
		return nil, extract.Stats{}, err
	}
	defer doc.Close()

	raw, stats, err := c.recoverer.Recover(doc)
	if err != nil {
		return nil, stats, err
	}
	return c.normalize(raw, stats)
}

func (c *Converter) normalize(raw []RawRow, stats extract.Stats) (Table, extract.Stats, error) {
	t := table.Normalize(raw)
	if len(t) == 0 {
		return nil, stats, ErrExtractionEmpty
	}
	c.log.WithFields(logrus.Fields{
		"pages":   stats.Pages,
		"tables":  stats.Tables,
		"rows":    len(t),
		"columns": t.Width(),
	}).Debug("normalized table")
	return t, stats, nil
}

// Process drops the structural columns and sorts the records. The input
// table is not modified.
func (c *Converter) Process(t Table) (Table, table.SortStats) {
	reduced := table.Reduce(t, c.cfg.Schema)
	sorted, stats := table.Sort(reduced, c.cfg.Schema)

	log := c.log.WithFields(logrus.Fields{
		"rows":     len(sorted),
		"columns":  sorted.Width(),
		"parsed":   stats.Parsed,
		"unparsed": stats.Unparsed,
	})
	if stats.StringFallback {
		log.WithField("fallback", "string").Info("no timestamps parsed, sorted as strings")
	} else {
		log.Debug("sorted table")
	}
	return sorted, stats
}

// Extract reads the PDF at path and returns the processed table, or
// ErrExtractionEmpty when the document holds no rows.
func (c *Converter) Extract(path string) (Table, error) {
	t, _, err := c.Recover(path)
	if err != nil {
		return nil, err
	}
	processed, _ := c.Process(t)
	return processed, nil
}

// ExtractReader is Extract for an in-memory document
func (c *Converter) ExtractReader(r io.ReaderAt, size int64) (Table, error) {
	t, _, err := c.RecoverReader(r, size)
	if err != nil {
		return nil, err
	}
	processed, _ := c.Process(t)
	return processed, nil
}

// Annotate returns the style directives of a processed table
func (c *Converter) Annotate(t Table) (*Directives, Report) {
	return c.engine.Annotate(t)
}

// Render writes the workbook of t styled by d. On failure the error is a
// *RenderError and t can be rendered again elsewhere.
func (c *Converter) Render(w io.Writer, t Table, d *Directives) error {
	return c.writer.Write(w, t, d)
}

// AnnotateAndRender annotates a processed table and returns the workbook
// bytes
func (c *Converter) AnnotateAndRender(t Table) ([]byte, error) {
	d, _ := c.Annotate(t)
	return c.writer.Bytes(t, d)
}

// Convert runs the whole pipeline on the PDF at path
func (c *Converter) Convert(path string) (*Result, error) {
	extracted, stats, err := c.Recover(path)
	if err != nil {
		return nil, errors.Wrapf(err, "extract %s", path)
	}
	return c.finish(extracted, stats)
}

// ConvertReader runs the whole pipeline on an in-memory document
func (c *Converter) ConvertReader(r io.ReaderAt, size int64) (*Result, error) {
	extracted, stats, err := c.RecoverReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "extract")
	}
	return c.finish(extracted, stats)
}

// ConvertBytes runs the whole pipeline on data
func (c *Converter) ConvertBytes(data []byte) (*Result, error) {
	return c.ConvertReader(bytes.NewReader(data), int64(len(data)))
}

func (c *Converter) finish(extracted Table, stats extract.Stats) (*Result, error) {
	processed, sortStats := c.Process(extracted)
	d, report := c.Annotate(processed)

	data, err := c.writer.Bytes(processed, d)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"rows":   len(processed),
		"runs":   report.Runs,
		"red":    report.RedRows,
		"orange": report.OrangeRows,
		"bytes":  len(data),
	}).Info("converted statement")

	return &Result{
		Extracted:  extracted,
		Table:      processed,
		Directives: d,
		Report:     report,
		Stats:      stats,
		Sort:       sortStats,
		Data:       data,
	}, nil
}

func defaultConverter() *Converter {
	c, err := NewConverter(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Extract reads the PDF at path with the default configuration
func Extract(path string) (Table, error) {
	return defaultConverter().Extract(path)
}

// AnnotateAndRender renders a processed table with the default configuration
func AnnotateAndRender(t Table) ([]byte, error) {
	return defaultConverter().AnnotateAndRender(t)
}

// Convert runs the whole pipeline on path with the default configuration
func Convert(path string) (*Result, error) {
	return defaultConverter().Convert(path)
}
