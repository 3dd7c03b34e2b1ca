package convert

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pptgen/internal/pkg/errors"
)

// Verify validates a converted PDF and returns its page count. A PDF that
// fails validation is treated as a failed conversion.
func Verify(pdfPath string) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(pdfPath, conf); err != nil {
		return 0, errors.Wrap(err, "convert.verify", "converted pdf failed validation")
	}

	pages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, errors.Wrap(err, "convert.verify", "failed to count pdf pages")
	}
	if pages == 0 {
		return 0, errors.New(errors.CodeInternal, "converted pdf has no pages")
	}
	return pages, nil
}
