package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iniakponode/data-sorter-app/internal/config"
	"github.com/iniakponode/data-sorter-app/internal/engine"
	"github.com/iniakponode/data-sorter-app/internal/export"
	"github.com/iniakponode/data-sorter-app/internal/ingest"
	"github.com/iniakponode/data-sorter-app/internal/store"
)

func runProcess(args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	columns := fs.String("columns", "", "Comma-separated output columns")
	startField := fs.String("start-field", "", "Field that starts a new record")
	endField := fs.String("end-field", "", "Field that ends a record")
	format := fs.String("format", "", "Output format: xlsx, csv, or text")
	out := fs.String("out", "", "Output file path")
	noGroup := fs.Bool("no-group", false, "Do not split output by organization name")
	save := fs.Bool("save", false, "Record the run in the history database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return fmt.Errorf("usage: datasorter process <path> [flags]")
	}
	input := fs.Args()[0]

	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath:    globalConfigPath,
		CLIColumns:    *columns,
		CLIStartField: *startField,
		CLIEndField:   *endField,
		CLIFormat:     *format,
		CLIDBPath:     globalDBPath,
	})
	if err != nil {
		return err
	}

	text, inputName, err := readInput(input)
	if err != nil {
		return err
	}

	pipeline, err := engine.NewPipeline(resolved.EngineConfig())
	if err != nil {
		return err
	}

	res := pipeline.Process(text)
	if len(res.Rows) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	groups := groupResult(res, pipeline.GroupColumnIndex(), *noGroup)

	outPath := strings.TrimSpace(*out)
	switch resolved.Format.Value {
	case "xlsx":
		if outPath == "" {
			outPath = derivedOutputPath(inputName, "xlsx")
		}
		if err := export.WriteXLSX(outPath, res.Headers, groups); err != nil {
			return err
		}
		fmt.Printf("Wrote %d record(s) in %d group(s) to %s\n", len(res.Rows), len(groups), outPath)
	case "csv":
		if outPath == "" {
			outPath = derivedOutputPath(inputName, "csv")
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		if err := export.WriteCSV(f, res.Headers, groups, !*noGroup); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %d record(s) in %d group(s) to %s\n", len(res.Rows), len(groups), outPath)
	case "text":
		w := io.Writer(os.Stdout)
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := export.WriteSummary(w, res.Headers, groups); err != nil {
			return err
		}
	}

	if *save {
		if err := saveRun(resolved, inputName, res, groups); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Println("Run saved to history.")
	}
	return nil
}

// readInput loads the document text. "-" reads stdin.
func readInput(path string) (text, name string, err error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "stdin", nil
	}
	text, err = ingest.ReadDocument(context.Background(), path)
	if err != nil {
		return "", "", err
	}
	return text, filepath.Base(path), nil
}

// groupResult splits rows by organization name, or keeps them in a
// single bucket when grouping is disabled or no group column exists.
func groupResult(res engine.Result, groupIdx int, noGroup bool) []engine.Group {
	if noGroup || groupIdx < 0 {
		return []engine.Group{{Name: "Records", Rows: res.Rows}}
	}
	return engine.GroupRows(res.Rows, groupIdx)
}

func derivedOutputPath(inputName, ext string) string {
	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	if base == "" || base == "stdin" {
		base = "records"
	}
	return base + "_sorted." + ext
}

func saveRun(resolved config.ResolvedConfig, inputName string, res engine.Result, groups []engine.Group) error {
	s, err := store.NewStore(resolved.DBPath.Value)
	if err != nil {
		return err
	}
	defer s.Close()

	var records []*store.Record
	for _, g := range groups {
		for _, row := range g.Rows {
			records = append(records, &store.Record{
				GroupName: g.Name,
				Fields:    rowFields(res.Headers, row),
			})
		}
	}

	_, err = s.SaveRun(context.Background(), &store.Run{
		InputName:   inputName,
		RecordCount: len(res.Rows),
		GroupCount:  len(groups),
	}, records)
	return err
}

// rowFields maps headers to row values, dropping empty cells and the
// serial column.
func rowFields(headers []string, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if i >= len(row) || h == engine.SerialColumn || row[i] == "" {
			continue
		}
		fields[h] = row[i]
	}
	return fields
}
