package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.1.0-dev"

// Global flags, stripped before command dispatch.
var (
	globalDBPath     string
	globalConfigPath string
)

func main() {
	args := parseGlobalFlags(os.Args[1:])
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	switch args[0] {
	case "process":
		if err := runProcess(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "demo":
		if err := runDemo(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := runHistory(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stats":
		if err := runStats(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("datasorter %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// parseGlobalFlags extracts --db and --config from anywhere in the
// argument list and returns the remaining arguments.
func parseGlobalFlags(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--db" && i+1 < len(args):
			globalDBPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--db="):
			globalDBPath = strings.TrimPrefix(arg, "--db=")
		case arg == "--config" && i+1 < len(args):
			globalConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			globalConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			out = append(out, arg)
		}
	}
	return out
}

func printUsage() {
	fmt.Printf(`datasorter %s — extract structured member records from noisy roster documents

Usage:
  datasorter <command> [arguments]

Commands:
  process <path>      Extract records from a document (.txt, .docx, .pdf, .csv; use - for stdin)
  demo                Run extraction over a built-in sample roster
  history             List recent extraction runs
  stats               Show run-history statistics
  config              Show the resolved configuration and where each value came from
  serve               Serve the extraction engine over MCP on stdio
  version             Print version

Process Flags:
  --columns <list>    Comma-separated output columns
  --start-field <f>   Field that starts a new record
  --end-field <f>     Field that ends a record
  --format <fmt>      Output format: xlsx, csv, or text
  --out <path>        Output file path (default: derived from input name)
  --no-group          Do not split output by organization name
  --save              Record the run in the history database

Global Flags:
  --db <path>         History database path (default: ~/.datasorter/history.db)
  --config <path>     Config file path (default: ~/.datasorter/config.yaml)
  -h, --help          Show this help message
  -v, --version       Print version
`, version)
}
