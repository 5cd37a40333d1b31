package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iniakponode/data-sorter-app/internal/engine"
)

// WriteSummary renders a human-readable listing of the extracted
// records, grouped, with empty fields omitted.
func WriteSummary(w io.Writer, headers []string, groups []engine.Group) error {
	total := 0
	for _, g := range groups {
		total += len(g.Rows)
	}
	if _, err := fmt.Fprintf(w, "Extracted %d record(s) in %d group(s)\n", total, len(groups)); err != nil {
		return err
	}

	for _, g := range groups {
		fmt.Fprintf(w, "\n=== %s (%d record(s)) ===\n", g.Name, len(g.Rows))
		for _, row := range g.Rows {
			fmt.Fprintln(w)
			for i, h := range headers {
				if i >= len(row) || strings.TrimSpace(row[i]) == "" {
					continue
				}
				fmt.Fprintf(w, "  %s: %s\n", h, row[i])
			}
		}
	}
	return nil
}
