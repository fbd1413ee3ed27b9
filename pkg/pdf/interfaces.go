package pdf

// Document represents an open PDF document, similar to pdfplumber.PDF.
// Close must be called to release the underlying file handle.
type Document interface {
	// GetMetadata returns the PDF metadata from the trailer's Info dictionary
	GetMetadata() Metadata

	// GetPage loads a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Backend names the reader library that parsed the document
	Backend() string

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single loaded page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractText extracts text from the page, one line per text row
	ExtractText(opts ...TextExtractionOption) string

	// ExtractWords extracts individual words from the page
	ExtractWords(opts ...WordExtractionOption) []Word

	// ExtractTables extracts tables from the page
	ExtractTables(opts ...TableExtractionOption) []Table
}
