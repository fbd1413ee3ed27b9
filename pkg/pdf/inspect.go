package pdf

import (
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// Info is a structural summary of a PDF produced by validating it with pdfcpu
type Info struct {
	PageCount int
	Title     string
	Author    string
	Subject   string
	Creator   string
	Producer  string
}

// Inspect parses and validates a PDF in relaxed mode and reports its page
// count and document information
func Inspect(rs io.ReadSeeker) (*Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read PDF context")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, errors.Wrap(err, "invalid PDF")
	}

	return &Info{
		PageCount: ctx.PageCount,
		Title:     ctx.Title,
		Author:    ctx.Author,
		Subject:   ctx.Subject,
		Creator:   ctx.Creator,
		Producer:  ctx.Producer,
	}, nil
}
