package export

import (
	"encoding/csv"
	"io"

	"github.com/iniakponode/data-sorter-app/internal/engine"
)

// WriteCSV writes all groups to one CSV stream. When grouped is true a
// GROUP column carrying the bucket name is prepended to every row.
func WriteCSV(w io.Writer, headers []string, groups []engine.Group, grouped bool) error {
	cw := csv.NewWriter(w)

	header := headers
	if grouped {
		header = append([]string{"GROUP"}, headers...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, group := range groups {
		for _, row := range group.Rows {
			out := row
			if grouped {
				out = append([]string{group.Name}, row...)
			}
			if err := cw.Write(out); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
