// Package annotate finds the statement rows that deserve attention and
// expresses them as per-cell font colors.
//
// Two passes run in order. The first marks runs of consecutive expense rows
// sharing an identical amount at or above a minimum. The second marks
// remaining large amounts. Red from the first pass always wins.
package annotate

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// Rules are the thresholds of both passes
type Rules struct {
	// ExpenseMarker must appear in the direction column of every run row
	ExpenseMarker string
	// RunMinAmount is the smallest amount that can start a run
	RunMinAmount decimal.Decimal
	// RunMinLength is the shortest run that is banded
	RunMinLength int
	// HighlightMinAmount is the threshold of the orange pass
	HighlightMinAmount decimal.Decimal
}

// DefaultRules returns the thresholds used for WeChat Pay statements
func DefaultRules() Rules {
	return Rules{
		ExpenseMarker:      "支出",
		RunMinAmount:       decimal.NewFromInt(80),
		RunMinLength:       2,
		HighlightMinAmount: decimal.NewFromInt(5000),
	}
}

// Report summarizes one annotation
type Report struct {
	Runs       int
	RedRows    int
	OrangeRows int
	Unparsed   int
}

// Engine applies Rules to tables laid out by a Schema
type Engine struct {
	schema table.Schema
	rules  Rules
	log    logrus.FieldLogger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for pass summaries
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine returns an engine for the schema's column roles
func NewEngine(schema table.Schema, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		schema: schema,
		rules:  rules,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RedColumns returns the 1-indexed columns banded by the run pass
func (e *Engine) RedColumns() []int {
	s := e.schema
	return []int{s.Time + 1, s.Direction + 1, s.Amount + 1, s.Counterparty + 1}
}

// OrangeColumns returns the 1-indexed columns marked by the threshold pass
func (e *Engine) OrangeColumns() []int {
	s := e.schema
	return []int{s.Amount + 1, s.Counterparty + 1}
}

// Annotate scans t and returns its style directives. The table is not
// modified and malformed amounts never fail the scan.
func (e *Engine) Annotate(t table.Table) (*Directives, Report) {
	amounts := make([]table.Amount, len(t))
	var report Report
	for i := range t {
		amounts[i] = table.ParseAmount(t.At(i, e.schema.Amount).String())
		if !amounts[i].OK {
			report.Unparsed++
		}
	}

	d := NewDirectives()
	e.markRuns(t, amounts, d, &report)
	e.markHighlights(amounts, d, &report)

	e.log.WithFields(logrus.Fields{
		"rows":     len(t),
		"runs":     report.Runs,
		"red":      report.RedRows,
		"orange":   report.OrangeRows,
		"unparsed": report.Unparsed,
	}).Debug("annotated table")
	return d, report
}

func (e *Engine) isExpense(t table.Table, i int) bool {
	return strings.Contains(t.At(i, e.schema.Direction).String(), e.rules.ExpenseMarker)
}

// markRuns bands maximal runs of equal expense amounts. The cursor moves
// past a banded run, so runs never overlap.
func (e *Engine) markRuns(t table.Table, amounts []table.Amount, d *Directives, report *Report) {
	columns := e.RedColumns()
	n := len(t)
	for i := 0; i < n; {
		start := amounts[i]
		if !start.OK || start.Value.LessThan(e.rules.RunMinAmount) || !e.isExpense(t, i) {
			i++
			continue
		}

		j := i + 1
		for j < n && amounts[j].OK && amounts[j].Value.Equal(start.Value) && e.isExpense(t, j) {
			j++
		}
		if j-i < e.rules.RunMinLength {
			i++
			continue
		}

		for row := i; row < j; row++ {
			for _, col := range columns {
				d.Set(row+1, col, Red)
			}
		}
		report.Runs++
		report.RedRows += j - i
		i = j
	}
}

// markHighlights colors large amounts whose amount cell is not already red
func (e *Engine) markHighlights(amounts []table.Amount, d *Directives, report *Report) {
	amountCol := e.schema.Amount + 1
	for i, a := range amounts {
		if !a.OK || d.Get(i+1, amountCol) == Red {
			continue
		}
		if a.Value.LessThan(e.rules.HighlightMinAmount) {
			continue
		}
		for _, col := range e.OrangeColumns() {
			d.Set(i+1, col, Orange)
		}
		report.OrangeRows++
	}
}
