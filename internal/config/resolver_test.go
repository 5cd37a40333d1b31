package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/iniakponode/data-sorter-app/internal/engine"
)

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	yaml := `db_path: ~/.datasorter/from-config.db
format: csv
extract:
  start_field: CO-OP NAME
  end_field: SEX
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DATASORTER_DB", "~/from-env.db")
	t.Setenv("DATASORTER_FORMAT", "text")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: cfgPath,
		CLIFormat:  "xlsx",
		CLIDBPath:  "~/from-cli.db",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.Format.Source != SourceCLI || resolved.Format.Value != "xlsx" {
		t.Errorf("format = %+v, want cli xlsx", resolved.Format)
	}
	if resolved.DBPath.Source != SourceCLI {
		t.Errorf("db path source = %s, want cli", resolved.DBPath.Source)
	}
	if resolved.StartField.Source != SourceConfig || resolved.StartField.Value != "CO-OP NAME" {
		t.Errorf("start field = %+v, want config CO-OP NAME", resolved.StartField)
	}
	if resolved.Columns.Source != SourceDefault {
		t.Errorf("columns source = %s, want default", resolved.Columns.Source)
	}
}

func TestResolveConfig_EnvOverridesConfig(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("format: csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATASORTER_FORMAT", "text")

	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.Format.Value != "text" || resolved.Format.Source != SourceEnv {
		t.Errorf("format = %+v, want env text", resolved.Format)
	}
}

func TestResolveConfig_MissingFileUsesDefaults(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.Format.Value != "xlsx" || resolved.Format.Source != SourceDefault {
		t.Errorf("format = %+v", resolved.Format)
	}
	if resolved.StartField.Value != engine.DefaultStartField {
		t.Errorf("start field = %+v", resolved.StartField)
	}
}

func TestResolveConfig_RejectsUnknownFormat(t *testing.T) {
	if _, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		CLIFormat:  "pdf",
	}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestResolveConfig_MalformedYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{ unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath}); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestEngineConfig(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		CLIColumns: "S/N, NAME ,PHONE NO",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	cfg := resolved.EngineConfig()
	want := []string{"S/N", "NAME", "PHONE NO"}
	if !reflect.DeepEqual(cfg.Columns, want) {
		t.Errorf("columns = %v, want %v", cfg.Columns, want)
	}
	if cfg.StartField != engine.DefaultStartField || cfg.EndField != engine.DefaultEndField {
		t.Errorf("boundaries = %q, %q", cfg.StartField, cfg.EndField)
	}
}

func TestSplitColumns(t *testing.T) {
	got := SplitColumns(" a ,, b ,")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitColumns = %v, want %v", got, want)
	}
}
