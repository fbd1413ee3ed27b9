package pdf

import (
	"time"
)

// BoundingBox represents a rectangular area with coordinates.
// Coordinates follow pdfplumber: origin at the top-left corner of the page,
// Y increasing downward.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Union returns the smallest box covering both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate time.Time
}

// Objects represents a collection of PDF objects
type Objects struct {
	Chars []CharObject
	Lines []LineObject
	Rects []RectObject
}

// CharObject represents a single glyph on the page
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// Width returns the advance width of the glyph
func (c CharObject) Width() float64 {
	return c.X1 - c.X0
}

// LineObject represents a stroked line segment in the PDF
type LineObject struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Width float64
}

// GetBBox returns the line's bounding box
func (l LineObject) GetBBox() BoundingBox {
	return BoundingBox{
		X0: min(l.X0, l.X1),
		Y0: min(l.Y0, l.Y1),
		X1: max(l.X0, l.X1),
		Y1: max(l.Y0, l.Y1),
	}
}

// RectObject represents a rectangle in the PDF
type RectObject struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// GetBBox returns the rectangle's bounding box
func (r RectObject) GetBBox() BoundingBox {
	return BoundingBox{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// Word represents a run of characters without a significant horizontal gap
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// GetBBox returns the word's bounding box
func (w Word) GetBBox() BoundingBox {
	return BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// Table represents an extracted table. Grid positions with no cell are
// reported as empty strings.
type Table struct {
	Rows [][]string
	BBox BoundingBox
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

// WithXTolerance sets the horizontal tolerance for word splitting
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for line grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// WordExtractionOption is a function that modifies word extraction behavior
type WordExtractionOption func(*wordExtractionConfig)

type wordExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

// WithWordTolerance sets both tolerances used to split words and lines
func WithWordTolerance(x, y float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.XTolerance = x
		c.YTolerance = y
	}
}

// TableExtractionOption is a function that modifies table extraction behavior
type TableExtractionOption func(*tableExtractionConfig)

type tableExtractionConfig struct {
	VerticalStrategy   string
	HorizontalStrategy string
	MinTableSize       int
	TextTolerance      float64
	SnapTolerance      float64
}

// Table detection strategies
const (
	StrategyLines = "lines"
	StrategyText  = "text"
)

// WithTableStrategy selects how column and row boundaries are found
func WithTableStrategy(vertical, horizontal string) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.VerticalStrategy = vertical
		c.HorizontalStrategy = horizontal
	}
}

// WithMinTableSize sets the minimum number of rows a table must have
func WithMinTableSize(rows int) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.MinTableSize = rows
	}
}

// WithTextTolerance sets the tolerance used when assembling cell text
func WithTextTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.TextTolerance = tolerance
	}
}

// WithSnapTolerance sets the distance within which ruling edges are merged
func WithSnapTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.SnapTolerance = tolerance
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
