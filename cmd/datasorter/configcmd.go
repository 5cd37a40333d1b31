package main

import (
	"flag"
	"fmt"

	"github.com/iniakponode/data-sorter-app/internal/config"
)

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("usage: datasorter config")
	}

	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: globalConfigPath,
		CLIDBPath:  globalDBPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Config file: %s\n\n", resolved.ConfigPath)
	printValue("columns", resolved.Columns)
	printValue("start_field", resolved.StartField)
	printValue("end_field", resolved.EndField)
	printValue("format", resolved.Format)
	printValue("db_path", resolved.DBPath)
	return nil
}

func printValue(name string, v config.ResolvedValue) {
	from := string(v.Source)
	if v.From != "" {
		from = fmt.Sprintf("%s: %s", v.Source, v.From)
	}
	fmt.Printf("%-12s %s\n", name, v.Value)
	fmt.Printf("%-12s (%s)\n", "", from)
}
