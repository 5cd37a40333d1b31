// Package ingest reads uploaded roster documents into the plain text
// blob the extraction engine consumes.
//
// Each supported format (.docx, .pdf, .csv, plain text) has its own
// importer implementing the Importer interface. ReadDocument dispatches
// by file extension, falling back to plain text for anything unknown.
package ingest

import (
	"context"
	"fmt"
)

// Importer handles a specific document format.
type Importer interface {
	// CanHandle returns true if this importer supports the given path.
	CanHandle(path string) bool

	// Import reads the document and returns its full text content.
	Import(ctx context.Context, path string) (string, error)
}

// Importers returns the registered importers in dispatch order. The
// plain-text importer comes last and doubles as the fallback.
func Importers() []Importer {
	return []Importer{
		&DocxImporter{},
		&PDFImporter{},
		&CSVImporter{},
		&PlainTextImporter{},
	}
}

// ReadDocument extracts the text of the document at path using the first
// importer that recognizes it. Unrecognized extensions are read as plain
// text.
func ReadDocument(ctx context.Context, path string) (string, error) {
	for _, imp := range Importers() {
		if !imp.CanHandle(path) {
			continue
		}
		text, err := imp.Import(ctx, path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return text, nil
	}

	text, err := (&PlainTextImporter{}).Import(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return text, nil
}
