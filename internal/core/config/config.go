package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int                 `toml:"version"`
	Paths         Paths               `toml:"paths"`
	DB            Database            `toml:"db"`
	Exclude       Exclude             `toml:"exclude"`
	Languages     map[string]Language `toml:"languages"`
	Watch         Watch               `toml:"watch"`
	Observability Observability       `toml:"observability"`
	OpenAPI       OpenAPI             `toml:"openapi"`
	Output        Output              `toml:"output"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Driver      string        `toml:"driver"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Language struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Paths    []string      `toml:"paths"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Addr          string `toml:"addr"`
	TraceEndpoint string `toml:"trace_endpoint"`
}

type OpenAPI struct {
	Enabled  bool     `toml:"enabled"`
	Patterns []string `toml:"patterns"`
}

type Output struct {
	JSON     string `toml:"json"`
	Markdown string `toml:"markdown"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateLanguages(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}
	if err := validateOpenAPI(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config with all defaults applied and no file loaded.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		cfg.Paths.ProjectRoot = "."
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "drift.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{"."}
	}

	if strings.TrimSpace(cfg.Observability.Addr) == "" {
		cfg.Observability.Addr = "127.0.0.1:9465"
	}

	if len(cfg.OpenAPI.Patterns) == 0 {
		cfg.OpenAPI.Patterns = []string{"**/openapi.yaml", "**/openapi.json", "**/swagger.yaml"}
	}
}

// IsEnabled reports whether a language block is active. Absent blocks
// default to enabled.
func (l Language) IsEnabled() bool {
	if l.Enabled == nil {
		return true
	}
	return *l.Enabled
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	return nil
}

func validateLanguages(cfg *Config) error {
	for language, settings := range cfg.Languages {
		if strings.TrimSpace(language) == "" {
			return fmt.Errorf("languages key must not be empty")
		}
		for _, ext := range settings.Extensions {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				return fmt.Errorf("languages.%s.extensions must not include empty values", language)
			}
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("languages.%s.extensions entries must start with a dot, got %q", language, ext)
			}
		}
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.Addr) == "" {
		return fmt.Errorf("observability.addr must not be empty when observability.enabled=true")
	}
	return nil
}

func validateOpenAPI(cfg *Config) error {
	if !cfg.OpenAPI.Enabled {
		return nil
	}
	for i, pattern := range cfg.OpenAPI.Patterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("openapi.patterns[%d] must not be empty", i)
		}
	}
	return nil
}
