// Package app wires the extraction registry, pair sources, history store,
// and reporting into the comparison service the CLI drives.
package app

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"apidrift/internal/core/config"
	"apidrift/internal/core/ports"
	"apidrift/internal/extract"
	"apidrift/internal/pairs"
)

type App struct {
	Config   *config.Config
	Registry *extract.Registry
	Source   ports.PairSource
	Store    ports.HistoryStore

	// Baseline is set when the source is git-backed; watch mode uses it to
	// rebuild a single file's pair against the configured base revision.
	Baseline *pairs.GitSource

	openapiGlobs []glob.Glob
}

func NewApp(cfg *config.Config, source ports.PairSource, store ports.HistoryStore) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if source == nil {
		return nil, fmt.Errorf("pair source is required")
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	var openapiGlobs []glob.Glob
	if cfg.OpenAPI.Enabled {
		for _, pattern := range cfg.OpenAPI.Patterns {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("compile openapi pattern %q: %w", pattern, err)
			}
			openapiGlobs = append(openapiGlobs, g)
		}
	}

	app := &App{
		Config:       cfg,
		Registry:     registry,
		Source:       source,
		Store:        store,
		openapiGlobs: openapiGlobs,
	}
	if git, ok := source.(*pairs.GitSource); ok {
		app.Baseline = git
	}
	return app, nil
}

func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// SupportedExtensions returns the union of every registered extractor's
// extension patterns, for the watcher's filter.
func (a *App) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range a.Registry.All() {
		for _, pattern := range e.Patterns() {
			pattern = strings.ToLower(strings.TrimSpace(pattern))
			if !strings.HasPrefix(pattern, ".") || seen[pattern] {
				continue
			}
			seen[pattern] = true
			out = append(out, pattern)
		}
	}
	return out
}

// buildRegistry applies the config's language blocks to the default
// registry: disabled languages are dropped and extension overrides replace
// the extractor's defaults.
func buildRegistry(cfg *config.Config) (*extract.Registry, error) {
	registry := extract.NewDefaultRegistry()

	for name, settings := range cfg.Languages {
		if !settings.IsEnabled() {
			registry.Unregister(name)
			continue
		}
		if len(settings.Extensions) == 0 {
			continue
		}

		var target extract.Extractor
		for _, e := range registry.All() {
			if e.Name() == name {
				target = e
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("languages.%s does not match a known language", name)
		}
		registry.Register(&overrideExtractor{Extractor: target, patterns: settings.Extensions})
	}

	return registry, nil
}

// overrideExtractor replaces an extractor's claimed patterns while keeping
// its extraction behavior.
type overrideExtractor struct {
	extract.Extractor
	patterns []string
}

func (o *overrideExtractor) Patterns() []string { return o.patterns }
