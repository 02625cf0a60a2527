package app

import (
	"context"
	"strings"
	"testing"

	"apidrift/internal/core/config"
	"apidrift/internal/pairs"
	"apidrift/internal/sig"
)

func newTestApp(t *testing.T, cfg *config.Config, items []pairs.FilePair) *App {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	a, err := NewApp(cfg, &pairs.StaticSource{Items: items}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestRunOnce_FindsBreakingChange(t *testing.T) {
	a := newTestApp(t, nil, []pairs.FilePair{
		{
			Path:       "src/api.ts",
			OldContent: []byte("export function greet(name: string): void {}"),
			NewContent: []byte("export function greet(name: number): void {}"),
		},
	})

	run, results, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", run.FilesScanned)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(results))
	}
	if !strings.Contains(results[0].Description, "string") || !strings.Contains(results[0].Description, "number") {
		t.Errorf("description missing before/after types: %q", results[0].Description)
	}
	if run.FindingCount != 1 {
		t.Errorf("FindingCount = %d, want 1", run.FindingCount)
	}
}

func TestRunOnce_DeterministicOrder(t *testing.T) {
	items := []pairs.FilePair{
		{Path: "z.go", OldContent: []byte("package z\n\nfunc Z() {}\n"), NewContent: []byte("package z\n")},
		{Path: "a.go", OldContent: []byte("package a\n\nfunc A() {}\n"), NewContent: []byte("package a\n")},
	}
	a := newTestApp(t, nil, items)

	for i := 0; i < 3; i++ {
		_, results, err := a.RunOnce(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 findings, got %d", len(results))
		}
		if results[0].FilePath != "z.go" || results[1].FilePath != "a.go" {
			t.Fatalf("findings out of pair order: %s, %s", results[0].FilePath, results[1].FilePath)
		}
	}
}

func TestComparePair_SkipsOneSidedAndUnsupported(t *testing.T) {
	a := newTestApp(t, nil, nil)
	ctx := context.Background()

	if got := a.ComparePair(ctx, pairs.FilePair{Path: "new.ts", NewContent: []byte("export const x = 1;")}); got != nil {
		t.Errorf("added file should produce no findings, got %v", got)
	}
	if got := a.ComparePair(ctx, pairs.FilePair{Path: "gone.ts", OldContent: []byte("export const x = 1;")}); got != nil {
		t.Errorf("deleted file should produce no findings, got %v", got)
	}
	if got := a.ComparePair(ctx, pairs.FilePair{
		Path:       "notes.txt",
		OldContent: []byte("a"),
		NewContent: []byte("b"),
	}); got != nil {
		t.Errorf("unsupported extension should produce no findings, got %v", got)
	}
}

func TestComparePair_GoMethodChangeSingleFinding(t *testing.T) {
	a := newTestApp(t, nil, nil)

	got := a.ComparePair(context.Background(), pairs.FilePair{
		Path: "srv/server.go",
		OldContent: []byte(`package srv

type Server struct {
	Addr string
}

func (s *Server) Handle(path string) error { return nil }
`),
		NewContent: []byte(`package srv

type Server struct {
	Addr string
}

func (s *Server) Handle(path string) string { return "" }
`),
	})

	// The method has exactly one identity, its receiver-qualified key.
	if len(got) != 1 {
		t.Fatalf("expected 1 finding for one method change, got %d: %+v", len(got), got)
	}
	if got[0].Metadata["symbol"] != "Server.Handle" {
		t.Errorf("symbol = %q, want Server.Handle", got[0].Metadata["symbol"])
	}
	if n := strings.Count(got[0].Description, "return type changed"); n != 1 {
		t.Errorf("return type delta reported %d times: %q", n, got[0].Description)
	}
}

type markerExtractor struct {
	called bool
}

func (m *markerExtractor) Name() string       { return "marker" }
func (m *markerExtractor) Patterns() []string { return []string{"*"} }

func (m *markerExtractor) Extract(string, string) (*sig.Set, error) {
	m.called = true
	return sig.NewSet(), nil
}

func TestComparePair_FirstClaimantWins(t *testing.T) {
	a := newTestApp(t, nil, nil)
	marker := &markerExtractor{}
	a.Registry.Register(marker)
	ctx := context.Background()

	got := a.ComparePair(ctx, pairs.FilePair{
		Path:       "api.ts",
		OldContent: []byte("export function f(a: string): void {}"),
		NewContent: []byte("export function f(a: number): void {}"),
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 finding from the primary extractor, got %d", len(got))
	}
	if marker.called {
		t.Error("later claimant should not run for a path the primary claims")
	}

	a.ComparePair(ctx, pairs.FilePair{
		Path:       "data.xyz",
		OldContent: []byte("a"),
		NewContent: []byte("b"),
	})
	if !marker.called {
		t.Error("wildcard claimant should run for otherwise unclaimed paths")
	}
}

func TestComparePair_RoutesOpenAPI(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAPI.Enabled = true

	a := newTestApp(t, cfg, nil)

	oldSpec := []byte(`
openapi: 3.0.0
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      responses:
        "200": {description: ok}
`)
	newSpec := []byte(`
openapi: 3.0.0
info: {title: t, version: "1"}
paths: {}
`)

	got := a.ComparePair(context.Background(), pairs.FilePair{
		Path:       "api/openapi.yaml",
		OldContent: oldSpec,
		NewContent: newSpec,
	})
	if len(got) != 1 || !strings.Contains(got[0].Title, "/pets") {
		t.Fatalf("expected removed-path finding, got %+v", got)
	}
}

func TestNewApp_LanguageDisableAndOverride(t *testing.T) {
	cfg := config.Default()
	disabled := false
	cfg.Languages = map[string]config.Language{
		"python": {Enabled: &disabled},
		"go":     {Extensions: []string{".gox"}},
	}

	a := newTestApp(t, cfg, nil)

	if got := a.Registry.ForPath("main.py"); len(got) != 0 {
		t.Error("python should be unregistered")
	}
	if got := a.Registry.ForPath("main.gox"); len(got) != 1 || got[0].Name() != "go" {
		t.Errorf("extension override not applied: %v", got)
	}
	if got := a.Registry.ForPath("main.go"); len(got) != 0 {
		t.Error("override should replace default extensions")
	}
}

func TestNewApp_UnknownLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Languages = map[string]config.Language{
		"cobol": {Extensions: []string{".cbl"}},
	}
	if _, err := NewApp(cfg, &pairs.StaticSource{}, nil); err == nil {
		t.Fatal("expected error for unknown language override")
	}
}

func TestSupportedExtensions(t *testing.T) {
	a := newTestApp(t, nil, nil)
	exts := a.SupportedExtensions()

	want := map[string]bool{".ts": false, ".go": false, ".rs": false, ".swift": false, ".java": false, ".py": false, ".cpp": false}
	for _, ext := range exts {
		if _, ok := want[ext]; ok {
			want[ext] = true
		}
	}
	for ext, seen := range want {
		if !seen {
			t.Errorf("missing extension %s", ext)
		}
	}
}

func TestHealthService(t *testing.T) {
	a := newTestApp(t, nil, nil)
	status := NewHealthService(a).Check(context.Background())
	if status.Status != "up" {
		t.Errorf("status = %q, want up (%v)", status.Status, status.Components)
	}

	a.Config.DB.Enabled = true
	status = NewHealthService(a).Check(context.Background())
	if status.Status != "degraded" {
		t.Error("enabled db without store should degrade health")
	}
}
