// Package export serializes extracted roster records to spreadsheet,
// CSV, and plain-text summary form.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iniakponode/data-sorter-app/internal/engine"
)

// maxColWidth caps auto-sized column widths so one long value cannot
// blow up the layout.
const maxColWidth = 50

// maxSheetName is the spreadsheet format's hard limit.
const maxSheetName = 31

// WriteXLSX writes one worksheet per group to path. The write is atomic:
// the workbook is assembled in a temp file in the target directory and
// renamed over path only on success, so a failed save never corrupts an
// existing file.
func WriteXLSX(path string, headers []string, groups []engine.Group) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if len(groups) == 0 {
		groups = []engine.Group{{Name: "Records"}}
	}

	used := make(map[string]bool)
	for i, group := range groups {
		sheet := sheetName(group.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, headers, group.Rows, headerStyle); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	return saveAtomic(f, path)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string, headerStyle int) error {
	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}
	if len(headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return err
		}
	}

	return sizeColumns(f, sheet, headers, rows)
}

// sizeColumns widens each column to its longest value plus padding,
// capped at maxColWidth.
func sizeColumns(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	for i, h := range headers {
		width := len(h)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > width {
				width = len(row[i])
			}
		}
		w := float64(width + 2)
		if w > maxColWidth {
			w = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func saveAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".datasorter-*.xlsx")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// sheetName sanitizes a group name into a unique worksheet name: the
// characters the format forbids are stripped, the result is truncated to
// 31 characters, and collisions get a numeric suffix that still fits.
func sheetName(name string, used map[string]bool) string {
	clean := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, name))
	if clean == "" {
		clean = "Records"
	}
	if len(clean) > maxSheetName {
		clean = strings.TrimSpace(clean[:maxSheetName])
	}

	candidate := clean
	for n := 2; used[candidate]; n++ {
		suffix := "_" + strconv.Itoa(n)
		base := clean
		if len(base)+len(suffix) > maxSheetName {
			base = strings.TrimSpace(base[:maxSheetName-len(suffix)])
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}
