package pdf

import (
	"sort"
	"strings"
)

// Default tolerances, in points, matching pdfplumber
const (
	DefaultXTolerance = 3.0
	DefaultYTolerance = 3.0
)

// contentPage implements the Page interface over objects decoded by a
// reader backend. Coordinates are converted to pdfplumber's top-left origin
// as objects are added.
type contentPage struct {
	pageNumber int
	width      float64
	height     float64
	objects    Objects
}

func newContentPage(pageNumber int, width, height float64) *contentPage {
	return &contentPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
	}
}

// addGlyph records one shown glyph. x and y are the PDF baseline origin.
func (p *contentPage) addGlyph(s, font string, fontSize, x, y, w float64) {
	if strings.TrimSpace(s) == "" {
		// Spaces only separate words
		return
	}
	// Baseline sits at roughly 80% of the font height
	yTop := y + fontSize*0.8
	y0 := p.height - yTop
	p.objects.Chars = append(p.objects.Chars, CharObject{
		Text:     s,
		Font:     font,
		FontSize: fontSize,
		X0:       x,
		Y0:       y0,
		X1:       x + w,
		Y1:       y0 + fontSize,
	})
}

// addRect records a rectangle given in PDF user space
func (p *contentPage) addRect(minX, minY, maxX, maxY float64) {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	p.objects.Rects = append(p.objects.Rects, RectObject{
		X0: minX,
		Y0: p.height - maxY,
		X1: maxX,
		Y1: p.height - minY,
	})
}

// GetPageNumber returns the page number (1-based)
func (p *contentPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *contentPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *contentPage) GetHeight() float64 {
	return p.height
}

// GetBBox returns the page bounding box
func (p *contentPage) GetBBox() BoundingBox {
	return BoundingBox{X0: 0, Y0: 0, X1: p.width, Y1: p.height}
}

// GetObjects returns all objects on the page
func (p *contentPage) GetObjects() Objects {
	return p.objects
}

// ExtractText extracts text from the page. Words on a line are joined by a
// single space and lines by a newline.
func (p *contentPage) ExtractText(opts ...TextExtractionOption) string {
	config := &textExtractionConfig{
		XTolerance: DefaultXTolerance,
		YTolerance: DefaultYTolerance,
	}
	for _, opt := range opts {
		opt(config)
	}

	lines := groupWordLines(p.objects.Chars, config.XTolerance, config.YTolerance)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		texts := make([]string, len(line))
		for i, w := range line {
			texts[i] = w.Text
		}
		out = append(out, strings.Join(texts, " "))
	}
	return strings.Join(out, "\n")
}

// ExtractWords extracts individual words from the page
func (p *contentPage) ExtractWords(opts ...WordExtractionOption) []Word {
	config := &wordExtractionConfig{
		XTolerance: DefaultXTolerance,
		YTolerance: DefaultYTolerance,
	}
	for _, opt := range opts {
		opt(config)
	}

	var words []Word
	for _, line := range groupWordLines(p.objects.Chars, config.XTolerance, config.YTolerance) {
		words = append(words, line...)
	}
	return words
}

// ExtractTables extracts tables from the page
func (p *contentPage) ExtractTables(opts ...TableExtractionOption) []Table {
	return newTableExtractor(p, opts...).extractTables()
}

// groupCharLines clusters characters into lines, top to bottom, each line
// sorted left to right
func groupCharLines(chars []CharObject, yTolerance float64) [][]CharObject {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]CharObject, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y0 < sorted[j].Y0
	})

	var lines [][]CharObject
	current := []CharObject{sorted[0]}
	currentY := sorted[0].Y0
	for _, char := range sorted[1:] {
		if abs(char.Y0-currentY) > yTolerance {
			lines = append(lines, current)
			current = []CharObject{char}
			currentY = char.Y0
			continue
		}
		current = append(current, char)
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X0 < line[j].X0
		})
	}
	return lines
}

// groupWordLines splits each character line into words
func groupWordLines(chars []CharObject, xTolerance, yTolerance float64) [][]Word {
	var lines [][]Word
	for _, line := range groupCharLines(chars, yTolerance) {
		lines = append(lines, wordsFromLine(line, xTolerance))
	}
	return lines
}

// wordsFromLine splits a sorted line wherever the gap to the previous glyph
// exceeds the tolerance
func wordsFromLine(line []CharObject, xTolerance float64) []Word {
	if len(line) == 0 {
		return nil
	}

	var words []Word
	current := []CharObject{line[0]}
	for i := 1; i < len(line); i++ {
		gap := line[i].X0 - line[i-1].X1
		if gap > xTolerance {
			words = append(words, createWord(current))
			current = []CharObject{line[i]}
			continue
		}
		current = append(current, line[i])
	}
	return append(words, createWord(current))
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	minX, minY := chars[0].X0, chars[0].Y0
	maxX, maxY := chars[0].X1, chars[0].Y1

	for _, char := range chars {
		text.WriteString(char.Text)
		minX = min(minX, char.X0)
		minY = min(minY, char.Y0)
		maxX = max(maxX, char.X1)
		maxY = max(maxY, char.Y1)
	}

	return Word{
		Text:       text.String(),
		X0:         minX,
		Y0:         minY,
		X1:         maxX,
		Y1:         maxY,
		Characters: chars,
	}
}
