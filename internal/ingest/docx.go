package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
)

// DocxImporter extracts paragraph text from Word .docx files. A .docx is
// a zip archive whose main content lives in word/document.xml; each
// <w:p> paragraph becomes one output line, with its <w:t> runs
// concatenated.
type DocxImporter struct{}

// CanHandle returns true for .docx files.
func (d *DocxImporter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".docx"
}

// Import unpacks the archive and walks the document XML.
func (d *DocxImporter) Import(_ context.Context, path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		doc, err := xmlquery.Parse(rc)
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		return paragraphText(doc), nil
	}
	return "", fmt.Errorf("no word/document.xml in archive")
}

// paragraphText joins the text runs of every paragraph, one paragraph
// per line.
func paragraphText(doc *xmlquery.Node) string {
	var b strings.Builder
	for _, p := range xmlquery.Find(doc, "//w:p") {
		for _, t := range xmlquery.Find(p, ".//w:t") {
			b.WriteString(t.InnerText())
		}
		b.WriteString("\n")
	}
	return b.String()
}
