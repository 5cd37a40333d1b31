package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// PlainTextImporter handles .txt, .log, and extensionless files.
type PlainTextImporter struct{}

// CanHandle returns true for plain text extensions.
func (t *PlainTextImporter) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".txt" || ext == ".log" || ext == ""
}

// Import reads the file verbatim with line endings normalized.
func (t *PlainTextImporter) Import(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
