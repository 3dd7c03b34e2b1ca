package convert

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pptgen/internal/pkg/errors"
)

// Soffice converts decks with a local LibreOffice install. It is the default
// when no ConvertAPI secret is configured.
type Soffice struct {
	binary string
}

func NewSoffice(binary string) *Soffice {
	if binary == "" {
		binary = "soffice"
	}
	return &Soffice{binary: binary}
}

func (s *Soffice) Name() string { return "soffice" }

// Convert runs soffice headless. LibreOffice names the output after the
// input, so the result is renamed into place afterwards.
func (s *Soffice) Convert(ctx context.Context, pptxPath, pdfPath string) error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return errors.Unavailable("LibreOffice is not installed")
	}

	outDir := filepath.Dir(pdfPath)
	cmd := exec.CommandContext(ctx, s.binary,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, pptxPath)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err, "convert.soffice", "libreoffice conversion failed").
			WithField("output", strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(pptxPath), filepath.Ext(pptxPath))
	produced := filepath.Join(outDir, base+".pdf")
	if produced == pdfPath {
		return nil
	}
	if err := os.Rename(produced, pdfPath); err != nil {
		return errors.Wrap(err, "convert.soffice", "failed to move converted pdf")
	}
	return nil
}
