// Package pdftest builds small, valid PDF documents for tests. Pages use a
// single Helvetica font with WinAnsi encoding and fixed 600-unit glyph
// widths, so text positions are predictable.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Glyph advance for the builder's font, in thousandths of the font size
const GlyphWidth = 600

// Builder assembles a PDF document in memory
type Builder struct {
	pages []*PageBuilder
	info  [][2]string
}

// PageBuilder accumulates the content stream of one page.
// Coordinates are PDF user space: origin bottom-left, Y upward.
type PageBuilder struct {
	width   float64
	height  float64
	content bytes.Buffer
}

// New returns an empty document builder
func New() *Builder {
	return &Builder{}
}

// SetInfo adds an entry to the document information dictionary
func (b *Builder) SetInfo(key, value string) *Builder {
	b.info = append(b.info, [2]string{key, value})
	return b
}

// AddPage appends a page of the given size
func (b *Builder) AddPage(width, height float64) *PageBuilder {
	p := &PageBuilder{width: width, height: height}
	b.pages = append(b.pages, p)
	return p
}

// Text shows s with its baseline starting at (x, y)
func (p *PageBuilder) Text(x, y, size float64, s string) *PageBuilder {
	fmt.Fprintf(&p.content, "BT /F1 %s Tf 1 0 0 1 %s %s Tm (%s) Tj ET\n",
		num(size), num(x), num(y), escape(s))
	return p
}

// Rect fills a rectangle with its lower-left corner at (x, y)
func (p *PageBuilder) Rect(x, y, w, h float64) *PageBuilder {
	fmt.Fprintf(&p.content, "%s %s %s %s re f\n", num(x), num(y), num(w), num(h))
	return p
}

// Grid draws a ruled table whose top-left corner is at (x, top). Rules are
// thin filled rectangles and each cell's text is placed inside its cell.
func (p *PageBuilder) Grid(x, top float64, colWidths []float64, rowHeight, fontSize float64, rows [][]string) *PageBuilder {
	const rule = 0.5
	var total float64
	for _, w := range colWidths {
		total += w
	}
	bottom := top - rowHeight*float64(len(rows))

	for r := 0; r <= len(rows); r++ {
		y := top - rowHeight*float64(r)
		p.Rect(x, y-rule/2, total, rule)
	}
	cx := x
	for c := 0; c <= len(colWidths); c++ {
		p.Rect(cx-rule/2, bottom, rule, top-bottom)
		if c < len(colWidths) {
			cx += colWidths[c]
		}
	}

	for r, row := range rows {
		baseline := top - rowHeight*float64(r) - rowHeight + (rowHeight-fontSize)/2 + fontSize*0.2
		cx := x
		for c, cell := range row {
			if c >= len(colWidths) {
				break
			}
			if cell != "" {
				p.Text(cx+2, baseline, fontSize, cell)
			}
			cx += colWidths[c]
		}
	}
	return p
}

// Bytes serializes the document with a correct cross-reference table
func (b *Builder) Bytes() []byte {
	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("")
	pagesObj := add("")
	font := add(fontObject())
	infoObj := 0
	if len(b.info) > 0 {
		var sb strings.Builder
		sb.WriteString("<<")
		for _, kv := range b.info {
			fmt.Fprintf(&sb, " /%s (%s)", kv[0], escape(kv[1]))
		}
		sb.WriteString(" >>")
		infoObj = add(sb.String())
	}

	var kids []string
	for _, p := range b.pages {
		stream := p.content.String()
		contents := add(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
		page := add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, num(p.width), num(p.height), font, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	out.WriteString("trailer\n")
	if infoObj > 0 {
		fmt.Fprintf(&out, "<< /Size %d /Root %d 0 R /Info %d 0 R >>\n", len(objects)+1, catalog, infoObj)
	} else {
		fmt.Fprintf(&out, "<< /Size %d /Root %d 0 R >>\n", len(objects)+1, catalog)
	}
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xref)
	return out.Bytes()
}

// WriteFile writes the document into a temporary directory owned by t and
// returns its path
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func fontObject() string {
	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(GlyphWidth)
	}
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.Join(widths, " ") + "] >>"
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
