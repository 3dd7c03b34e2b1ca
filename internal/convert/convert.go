// Package convert renders generated decks to PDF for in-browser preview.
// Conversion runs through ConvertAPI when a secret is configured, otherwise
// through a local LibreOffice install.
package convert

import (
	"context"
	"os"
	"path/filepath"
)

// Converter renders a pptx file to a PDF at pdfPath.
type Converter interface {
	Name() string
	Convert(ctx context.Context, pptxPath, pdfPath string) error
}

// writeAtomic writes data next to path and renames it into place so status
// polls never observe a half-written PDF.
func writeAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
