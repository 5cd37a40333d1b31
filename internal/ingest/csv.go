package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVImporter re-renders spreadsheet rows as KEY: VALUE stanzas so the
// extraction engine sees the same shape it gets from pasted text. The
// first row supplies the keys; each following row becomes one stanza
// separated by a blank line.
type CSVImporter struct{}

// CanHandle returns true for .csv files.
func (c *CSVImporter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

// Import reads the file and renders its rows as labeled lines.
func (c *CSVImporter) Import(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return "", nil
	}

	headers := records[0]
	var b strings.Builder
	for _, row := range records[1:] {
		for i, value := range row {
			if i >= len(headers) {
				break
			}
			key := strings.TrimSpace(headers[i])
			value = strings.TrimSpace(value)
			if key == "" || value == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
