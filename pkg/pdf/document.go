package pdf

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoReader is returned when none of the reader backends can parse a file.
var ErrNoReader = errors.New("no PDF reader backend could open the document")

// Page dimensions used when a page has no usable MediaBox (US Letter)
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// pageLoader builds a loaded page for a 1-based page number
type pageLoader func(pageNumber int) (*contentPage, error)

// document is the Document implementation shared by the reader backends.
// Backends supply the page count, metadata and a loader; pages are parsed
// lazily so a malformed page only fails when it is requested.
type document struct {
	backend  string
	closer   io.Closer
	numPages int
	metadata Metadata
	load     pageLoader
}

// opener tries to parse a document with one backend
type opener func(r io.ReaderAt, size int64) (*document, error)

// Open opens a PDF file and returns a Document.
// It tries ledongthuc/pdf first, then falls back to dslipak/pdf.
func Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}

	doc, err := openWith(f, st.Size())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	doc.closer = f
	return doc, nil
}

// OpenReader parses a document from an in-memory or seekable source.
// The caller owns r; Close on the returned Document does not close it.
func OpenReader(r io.ReaderAt, size int64) (Document, error) {
	doc, err := openWith(r, size)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func openWith(r io.ReaderAt, size int64) (*document, error) {
	var failures []string
	for _, open := range []opener{openLedongthuc, openDslipak} {
		doc, err := safeOpen(open, r, size)
		if err == nil {
			return doc, nil
		}
		failures = append(failures, err.Error())
	}
	return nil, errors.Wrap(ErrNoReader, strings.Join(failures, "; "))
}

// safeOpen converts reader panics on malformed input into errors
func safeOpen(open opener, r io.ReaderAt, size int64) (doc *document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("reader panic: %v", rec)
		}
	}()
	return open(r, size)
}

// GetMetadata returns the PDF metadata
func (d *document) GetMetadata() Metadata {
	return d.metadata
}

// GetPage loads a specific page by index (0-based)
func (d *document) GetPage(index int) (Page, error) {
	if index < 0 || index >= d.numPages {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, d.numPages)
	}
	return d.loadPage(index + 1)
}

func (d *document) loadPage(pageNumber int) (p *contentPage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = fmt.Errorf("page %d: malformed content: %v", pageNumber, rec)
		}
	}()
	p, err = d.load(pageNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "page %d", pageNumber)
	}
	return p, nil
}

// PageCount returns the total number of pages
func (d *document) PageCount() int {
	return d.numPages
}

// Backend names the reader library that parsed the document
func (d *document) Backend() string {
	return d.backend
}

// Close releases resources associated with the document
func (d *document) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// mediaBoxSize returns width and height from MediaBox coordinates
func mediaBoxSize(coords []float64) (float64, float64) {
	if len(coords) != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	width := abs(coords[2] - coords[0])
	height := abs(coords[3] - coords[1])
	if width == 0 || height == 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}

func parsePDFDate(dateStr string) time.Time {
	// PDF date format: D:YYYYMMDDHHmmSSOHH'mm
	dateStr = strings.TrimPrefix(dateStr, "D:")
	if len(dateStr) < 14 {
		return time.Time{}
	}
	t, err := time.Parse("20060102150405", dateStr[:14])
	if err != nil {
		return time.Time{}
	}
	return t
}
