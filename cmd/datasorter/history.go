package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/iniakponode/data-sorter-app/internal/config"
	"github.com/iniakponode/data-sorter-app/internal/store"
)

// openHistoryStore resolves the database path and opens the run-history
// store.
func openHistoryStore() (store.Store, error) {
	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: globalConfigPath,
		CLIDBPath:  globalDBPath,
	})
	if err != nil {
		return nil, err
	}
	return store.NewStore(resolved.DBPath.Value)
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("usage: datasorter history [--limit N]")
	}

	s, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Use `datasorter process --save` to record one.")
		return nil
	}

	fmt.Printf("%-5s %-30s %8s %8s  %s\n", "ID", "INPUT", "RECORDS", "GROUPS", "WHEN")
	for _, run := range runs {
		name := run.InputName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-5d %-30s %8d %8d  %s\n",
			run.ID, name, run.RecordCount, run.GroupCount,
			run.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("usage: datasorter stats")
	}

	s, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Runs:    %d\n", stats.RunCount)
	fmt.Printf("Records: %d\n", stats.RecordCount)
	fmt.Printf("Groups:  %d\n", stats.GroupCount)
	if !stats.LastRunAt.IsZero() {
		fmt.Printf("Last:    %s\n", stats.LastRunAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
