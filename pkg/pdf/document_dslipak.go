package pdf

import (
	"io"

	gopdf "github.com/dslipak/pdf"
	"github.com/pkg/errors"
)

// BackendDslipak identifies documents parsed by dslipak/pdf
const BackendDslipak = "dslipak"

func openDslipak(r io.ReaderAt, size int64) (*document, error) {
	reader, err := gopdf.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF with dslipak")
	}

	info := reader.Trailer().Key("Info")
	doc := &document{
		backend:  BackendDslipak,
		numPages: reader.NumPage(),
		metadata: Metadata{
			Title:        info.Key("Title").Text(),
			Author:       info.Key("Author").Text(),
			Subject:      info.Key("Subject").Text(),
			Creator:      info.Key("Creator").Text(),
			Producer:     info.Key("Producer").Text(),
			CreationDate: parsePDFDate(info.Key("CreationDate").Text()),
		},
	}
	doc.load = func(pageNumber int) (*contentPage, error) {
		return loadDslipakPage(reader, pageNumber)
	}
	return doc, nil
}

func loadDslipakPage(reader *gopdf.Reader, pageNumber int) (*contentPage, error) {
	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, errors.Errorf("page %d not found", pageNumber)
	}

	var coords []float64
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == gopdf.Array {
		for i := 0; i < mediaBox.Len(); i++ {
			coords = append(coords, mediaBox.Index(i).Float64())
		}
	}
	width, height := mediaBoxSize(coords)

	p := newContentPage(pageNumber, width, height)
	content := page.Content()
	for _, text := range content.Text {
		p.addGlyph(text.S, text.Font, text.FontSize, text.X, text.Y, text.W)
	}
	for _, rect := range content.Rect {
		p.addRect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
	}
	return p, nil
}
