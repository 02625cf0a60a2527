package extract

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Registry maps file extensions to the extractors that claim them. Lookup is
// by lowercase extension; extractors may also claim glob patterns over the
// base filename, and a bare "*" claims every path. Unknown extensions return
// an empty slice, which is the graceful-skip contract the pipeline relies on.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*registryEntry
}

type registryEntry struct {
	extractor  Extractor
	extensions map[string]bool
	globs      []glob.Glob
	wildcard   bool
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds an extractor, overwriting any previous extractor with the
// same name. Overwrites are allowed but logged.
func (r *Registry) Register(e Extractor) {
	if e == nil {
		return
	}
	entry := &registryEntry{
		extractor:  e,
		extensions: make(map[string]bool),
	}
	for _, pattern := range e.Patterns() {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if pattern == "*" {
			entry.wildcard = true
			continue
		}
		if strings.ContainsAny(pattern, "*?[]{}") {
			g, err := glob.Compile(pattern)
			if err != nil {
				slog.Warn("skipping invalid extractor pattern", "extractor", e.Name(), "pattern", pattern, "error", err)
				continue
			}
			entry.globs = append(entry.globs, g)
			continue
		}
		if !strings.HasPrefix(pattern, ".") {
			pattern = "." + pattern
		}
		entry.extensions[pattern] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Name()]; exists {
		slog.Warn("re-registering extractor", "name", e.Name())
	} else {
		r.order = append(r.order, e.Name())
	}
	r.entries[e.Name()] = entry
}

// Unregister removes the named extractor. Removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; !exists {
		return
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ForPath returns every extractor claiming the path, in registration order.
func (r *Registry) ForPath(path string) []Extractor {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Extractor
	for _, name := range r.order {
		entry, ok := r.entries[name]
		if !ok {
			continue
		}
		if entry.wildcard || (ext != "" && entry.extensions[ext]) {
			out = append(out, entry.extractor)
			continue
		}
		for _, g := range entry.globs {
			if g.Match(base) {
				out = append(out, entry.extractor)
				break
			}
		}
	}
	return out
}

// All returns every registered extractor in registration order.
func (r *Registry) All() []Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extractor, 0, len(r.order))
	for _, name := range r.order {
		if entry, ok := r.entries[name]; ok {
			out = append(out, entry.extractor)
		}
	}
	return out
}

// NewDefaultRegistry returns a registry with all seven language extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewECMAScriptExtractor())
	r.Register(&GoExtractor{})
	r.Register(&JavaExtractor{})
	r.Register(&CxxExtractor{})
	r.Register(&PythonExtractor{})
	r.Register(&SwiftExtractor{})
	r.Register(&RustExtractor{})
	return r
}
