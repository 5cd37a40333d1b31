// Package config resolves datasorter settings from a yaml config file,
// environment variables, and CLI flags, in that order of precedence.
// Every resolved value carries its provenance so `datasorter config`
// style debugging can show where a setting came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iniakponode/data-sorter-app/internal/engine"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a setting plus where it was resolved from.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the CLI-level overrides into resolution.
type ResolveOptions struct {
	ConfigPath    string
	CLIColumns    string
	CLIStartField string
	CLIEndField   string
	CLIFormat     string
	CLIDBPath     string
}

// ResolvedConfig is the fully resolved settings set. Columns is a
// comma-separated list; use EngineConfig to get the parsed form.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	Columns    ResolvedValue `json:"columns"`
	StartField ResolvedValue `json:"start_field"`
	EndField   ResolvedValue `json:"end_field"`
	Format     ResolvedValue `json:"format"`
	DBPath     ResolvedValue `json:"db_path"`
}

type fileConfig struct {
	DBPath  string `yaml:"db_path"`
	Format  string `yaml:"format"`
	Extract struct {
		Columns    []string `yaml:"columns"`
		StartField string   `yaml:"start_field"`
		EndField   string   `yaml:"end_field"`
	} `yaml:"extract"`
}

// DefaultConfigPath is ~/.datasorter/config.yaml, overridable with
// DATASORTER_CONFIG.
func DefaultConfigPath() string {
	if v := strings.TrimSpace(os.Getenv("DATASORTER_CONFIG")); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".datasorter", "config.yaml")
}

// DefaultDBPath is ~/.datasorter/history.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".datasorter", "history.db")
}

// ResolveConfig layers file, environment, and CLI values. A missing
// config file is not an error; a malformed one is.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		Columns:    ResolvedValue{Value: strings.Join(engine.DefaultColumns, ","), Source: SourceDefault, From: "built-in default"},
		StartField: ResolvedValue{Value: engine.DefaultStartField, Source: SourceDefault, From: "built-in default"},
		EndField:   ResolvedValue{Value: engine.DefaultEndField, Source: SourceDefault, From: "built-in default"},
		Format:     ResolvedValue{Value: "xlsx", Source: SourceDefault, From: "built-in default"},
		DBPath:     ResolvedValue{Value: DefaultDBPath(), Source: SourceDefault, From: "built-in default"},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.Columns, strings.Join(cfg.Extract.Columns, ","), SourceConfig, path)
		apply(&out.StartField, cfg.Extract.StartField, SourceConfig, path)
		apply(&out.EndField, cfg.Extract.EndField, SourceConfig, path)
		apply(&out.Format, cfg.Format, SourceConfig, path)
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
	}

	applyEnv(&out.Columns, "DATASORTER_COLUMNS")
	applyEnv(&out.StartField, "DATASORTER_START_FIELD")
	applyEnv(&out.EndField, "DATASORTER_END_FIELD")
	applyEnv(&out.Format, "DATASORTER_FORMAT")
	applyEnv(&out.DBPath, "DATASORTER_DB")

	apply(&out.Columns, opts.CLIColumns, SourceCLI, "--columns")
	apply(&out.StartField, opts.CLIStartField, SourceCLI, "--start-field")
	apply(&out.EndField, opts.CLIEndField, SourceCLI, "--end-field")
	apply(&out.Format, opts.CLIFormat, SourceCLI, "--format")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")

	out.DBPath.Value = expandUserPath(out.DBPath.Value)
	out.Format.Value = strings.ToLower(strings.TrimSpace(out.Format.Value))
	switch out.Format.Value {
	case "xlsx", "csv", "text":
	default:
		return out, fmt.Errorf("unsupported format %q (want xlsx, csv, or text)", out.Format.Value)
	}

	return out, nil
}

// EngineConfig parses the resolved values into the extraction pipeline
// configuration. Schema validation happens when the pipeline is built.
func (r ResolvedConfig) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if cols := SplitColumns(r.Columns.Value); len(cols) > 0 {
		cfg.Columns = cols
	}
	if v := strings.TrimSpace(r.StartField.Value); v != "" {
		cfg.StartField = v
	}
	if v := strings.TrimSpace(r.EndField.Value); v != "" {
		cfg.EndField = v
	}
	return cfg
}

// SplitColumns parses a comma-separated column list, dropping empty
// entries.
func SplitColumns(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
