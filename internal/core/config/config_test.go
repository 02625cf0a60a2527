package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[paths]
project_root = "./src"

[db]
enabled = true
path = "history.db"

[exclude]
dirs = [".git", "node_modules"]
files = ["*.min.js"]

[languages.python]
enabled = false

[languages.go]
extensions = [".go"]

[watch]
debounce = "1s"

[output]
json = "findings.json"
markdown = "findings.md"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.ProjectRoot != "./src" {
		t.Errorf("ProjectRoot = %q, want ./src", cfg.Paths.ProjectRoot)
	}
	if !cfg.DB.Enabled || cfg.DB.Path != "history.db" {
		t.Errorf("unexpected db config: %+v", cfg.DB)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if len(cfg.Exclude.Dirs) != 2 {
		t.Errorf("Exclude.Dirs = %v", cfg.Exclude.Dirs)
	}
	if cfg.Languages["python"].IsEnabled() {
		t.Error("python should be disabled")
	}
	if !cfg.Languages["go"].IsEnabled() {
		t.Error("go should default to enabled")
	}
	if cfg.Output.JSON != "findings.json" {
		t.Errorf("Output.JSON = %q", cfg.Output.JSON)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, ``)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.DB.BusyTimeout != 5*time.Second {
		t.Errorf("DB.BusyTimeout = %v, want 5s", cfg.DB.BusyTimeout)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Paths) != 1 || cfg.Watch.Paths[0] != "." {
		t.Errorf("Watch.Paths = %v", cfg.Watch.Paths)
	}
	if cfg.Observability.Addr == "" {
		t.Error("Observability.Addr should default to a listen address")
	}
	if len(cfg.OpenAPI.Patterns) == 0 {
		t.Error("OpenAPI.Patterns should have defaults")
	}
}

func TestLoad_InvalidVersion(t *testing.T) {
	path := writeConfig(t, `version = 9`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := writeConfig(t, `
[db]
driver = "postgres"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "db.driver") {
		t.Fatalf("expected db.driver error, got %v", err)
	}
}

func TestLoad_InvalidExtension(t *testing.T) {
	path := writeConfig(t, `
[languages.go]
extensions = ["go"]
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "dot") {
		t.Fatalf("expected extension error, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != 1 || cfg.DB.Driver != "sqlite" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
