package ingest

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFImporter extracts the plain text stream of a PDF document.
type PDFImporter struct{}

// CanHandle returns true for .pdf files.
func (p *PDFImporter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

// Import reads the whole document's text in page order.
func (p *PDFImporter) Import(_ context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
