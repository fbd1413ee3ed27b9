package table

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// TimeLayout is the canonical minute-precision timestamp format
const TimeLayout = "2006-01-02 15:04"

// timestampLayouts are tried in order; the first that parses wins
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02",
	"2006/1/2",
	"2006年1月2日 15:04:05",
	"2006年1月2日 15:04",
	"2006年1月2日",
	"2006.01.02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Timestamp is the result of parsing a time cell. When OK is false Value is
// zero and Raw carries the original text.
type Timestamp struct {
	Value time.Time
	Raw   string
	OK    bool
}

// ParseTimestamp parses raw with the known statement layouts. Full-width
// digits are folded and a value wrapped across lines is rejoined first.
func ParseTimestamp(raw string) Timestamp {
	s := strings.Join(strings.Fields(norm.NFKC.String(raw)), " ")
	if s == "" {
		return Timestamp{Raw: raw}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Value: t, Raw: raw, OK: true}
		}
	}
	return Timestamp{Raw: raw}
}

// Format renders a parsed timestamp at minute precision, seconds truncated.
// Unparsed values are returned unchanged.
func (ts Timestamp) Format() string {
	if !ts.OK {
		return ts.Raw
	}
	return ts.Value.Format(TimeLayout)
}

// Amount is the result of parsing an amount cell. When OK is false Value is
// zero and Raw carries the original text.
type Amount struct {
	Value decimal.Decimal
	Raw   string
	OK    bool
}

var amountCleaner = strings.NewReplacer(",", "", "¥", "", "￥", "")

// ParseAmount parses a decimal amount after folding full-width characters,
// trimming whitespace and stripping thousands separators and the yuan sign
func ParseAmount(raw string) Amount {
	s := strings.TrimSpace(amountCleaner.Replace(norm.NFKC.String(raw)))
	if s == "" {
		return Amount{Raw: raw}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Raw: raw}
	}
	return Amount{Value: d, Raw: raw, OK: true}
}
