package findings

import (
	"strings"
	"testing"

	"apidrift/internal/engine/diff"
	"apidrift/internal/extract"
	"apidrift/internal/sig"
)

func diffSource(t *testing.T, e extract.Extractor, path, oldSrc, newSrc string) []Finding {
	t.Helper()
	oldSet, err := e.Extract(path, oldSrc)
	if err != nil {
		t.Fatalf("extract old: %v", err)
	}
	newSet, err := e.Extract(path, newSrc)
	if err != nil {
		t.Fatalf("extract new: %v", err)
	}
	return Synthesize(path, diff.Diff(oldSet, newSet))
}

// Changing a parameter type yields one finding whose description names both
// the old and the new type.
func TestSynthesize_ParamTypeCaseStudy(t *testing.T) {
	got := diffSource(t, extract.NewECMAScriptExtractor(), "api.ts",
		"export function f(a: string): void {}\n",
		"export function f(a: number): void {}\n",
	)

	if len(got) != 1 {
		t.Fatalf("findings = %d, want 1", len(got))
	}
	f := got[0]
	if f.Type != "BREAKING_API" || f.Severity != "HIGH" {
		t.Errorf("type/severity = %q/%q", f.Type, f.Severity)
	}
	if f.FilePath != "api.ts" {
		t.Errorf("filePath = %q", f.FilePath)
	}
	if !strings.Contains(f.Description, "string") || !strings.Contains(f.Description, "number") {
		t.Errorf("description should name both types: %q", f.Description)
	}
}

// Adding a required Go parameter yields one finding mentioning the parameter
// count.
func TestSynthesize_GoArityCaseStudy(t *testing.T) {
	got := diffSource(t, &extract.GoExtractor{}, "math.go",
		"package m\n\nfunc Add(a, b int) int { return a + b }\n",
		"package m\n\nfunc Add(a, b, c int) int { return a + b + c }\n",
	)

	if len(got) != 1 {
		t.Fatalf("findings = %d, want 1", len(got))
	}
	if !strings.Contains(got[0].Description, "Parameter count") {
		t.Errorf("description = %q", got[0].Description)
	}
}

func TestSynthesize_RemovalTitle(t *testing.T) {
	oldSet := sig.NewSet()
	oldSet.Put(&sig.Symbol{Key: "Widget", Name: "Widget", Kind: sig.KindType, Type: &sig.TypeDecl{}})
	newSet := sig.NewSet()

	got := Synthesize("widget.go", diff.Diff(oldSet, newSet))
	if len(got) != 1 {
		t.Fatalf("findings = %d", len(got))
	}
	if got[0].Title != "type 'Widget' was removed" {
		t.Errorf("title = %q", got[0].Title)
	}
	if got[0].Metadata["symbol"] != "Widget" {
		t.Errorf("metadata = %v", got[0].Metadata)
	}
}

// Many deltas on one symbol collapse into one finding with one bullet each.
func TestSynthesize_GroupsPerSymbol(t *testing.T) {
	changes := []diff.Change{
		{Kind: diff.ReturnTypeChanged, Symbol: "f", SymbolName: "f", Before: "int", After: "string"},
		{Kind: diff.ParamCountChanged, Symbol: "f", SymbolName: "f", Before: "1", After: "2"},
		{Kind: diff.Removed, Symbol: "g", SymbolName: "g", SymbolKind: sig.KindFunction},
	}

	got := Synthesize("lib.rs", changes)
	if len(got) != 2 {
		t.Fatalf("findings = %d, want 2", len(got))
	}
	if n := strings.Count(got[0].Description, "\n- "); n != 2 {
		t.Errorf("bullets = %d, want 2: %q", n, got[0].Description)
	}
	if got[0].Metadata["kinds"] != "return-type-changed,param-count-changed" {
		t.Errorf("kinds = %q", got[0].Metadata["kinds"])
	}
	if !strings.Contains(got[1].Title, "was removed") {
		t.Errorf("title = %q", got[1].Title)
	}
}
