package deck

import (
	"os"
	"path/filepath"
	"strings"

	gopresentation "github.com/VantageDataChat/GoPPT"

	"pptgen/internal/pkg/errors"
)

const maxTemplateBytes = 50 << 20

// AllowedTemplateFile reports whether the filename has an accepted
// presentation extension.
func AllowedTemplateFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pptx", ".potx":
		return true
	}
	return false
}

// ValidateTemplate confirms the uploaded file is a readable presentation of
// a sane size with at least one layout or slide to build on.
func ValidateTemplate(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "deck.validate", "template file is not readable")
	}
	if fi.Size() == 0 {
		return errors.Validation("Invalid PowerPoint file")
	}
	if fi.Size() > maxTemplateBytes {
		return errors.PayloadTooLarge(maxTemplateBytes)
	}

	pres, err := gopresentation.Open(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "deck.validate", "Invalid PowerPoint file")
	}
	defer func() { _ = pres.Close() }()

	if len(pres.GetSlideLayouts()) == 0 && pres.GetSlideCount() == 0 {
		return errors.Validation("Invalid PowerPoint file")
	}
	return nil
}
