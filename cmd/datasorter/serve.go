package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iniakponode/data-sorter-app/internal/config"
	"github.com/iniakponode/data-sorter-app/internal/mcp"
	"github.com/iniakponode/data-sorter-app/internal/store"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("usage: datasorter serve")
	}

	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: globalConfigPath,
		CLIDBPath:  globalDBPath,
	})
	if err != nil {
		return err
	}

	// The extraction tool works without history; a broken database only
	// disables the stats tool and recent-run resource.
	var st store.Store
	if s, err := store.NewStore(resolved.DBPath.Value); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history store unavailable: %v\n", err)
	} else {
		st = s
		defer s.Close()
	}

	srv := mcp.NewServer(mcp.ServerConfig{Store: st, Version: version})
	return mcp.ServeStdio(srv)
}
