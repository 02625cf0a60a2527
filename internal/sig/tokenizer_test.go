package sig

import (
	"reflect"
	"testing"
)

func TestSplitParams_TopLevelCommas(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "a int", []string{"a int"}},
		{"plain", "a int, b string", []string{"a int", "b string"}},
		{"nested generics", "m map[string]int, p Pair<K, V>", []string{"m map[string]int", "p Pair<K, V>"}},
		{"nested call type", "f func(a, b int), c bool", []string{"f func(a, b int)", "c bool"}},
		{"nested braces", "s struct{ a, b int }, n int", []string{"s struct{ a, b int }", "n int"}},
		{"trailing segment", "a: string, b: number", []string{"a: string", "b: number"}},
		{"deeply nested", "x Map<String, List<Pair<A, B>>>, y int", []string{"x Map<String, List<Pair<A, B>>>", "y int"}},
	}

	for _, tc := range cases {
		got := SplitParams(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: SplitParams(%q) = %#v, want %#v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSplitParams_SegmentsBalanced(t *testing.T) {
	for _, seg := range SplitParams("a Pair<int, string>, b [2]int, c (x, y)") {
		depth := 0
		for _, r := range seg {
			switch r {
			case '<', '(', '[', '{':
				depth++
			case '>', ')', ']', '}':
				depth--
			}
		}
		if depth != 0 {
			t.Errorf("segment %q has unbalanced brackets", seg)
		}
	}
}

func TestNormalizeType(t *testing.T) {
	if got := NormalizeType("  map[string] \n int "); got != "map[string] int" {
		t.Errorf("unexpected normalization: %q", got)
	}
	if !TypesEqual("const  char *", "const char *") {
		t.Error("whitespace runs should not affect equality")
	}
	if NormalizeCxxType("const char *") != NormalizeCxxType("const char*") {
		t.Error("pointer sigil spacing should not affect C/C++ equality")
	}
	if NormalizeCxxType("std::string &") != NormalizeCxxType("std::string&") {
		t.Error("reference sigil spacing should not affect C/C++ equality")
	}
}

func TestSet_InsertionOrderAndOverwrite(t *testing.T) {
	set := NewSet()
	set.Put(&Symbol{Key: "B", Name: "B", Kind: KindFunction})
	set.Put(&Symbol{Key: "A", Name: "A", Kind: KindFunction})
	set.Put(&Symbol{Key: "B", Name: "B", Kind: KindVariable})

	keys := set.Keys()
	if !reflect.DeepEqual(keys, []string{"B", "A"}) {
		t.Fatalf("expected insertion order [B A], got %v", keys)
	}
	sym, ok := set.Get("B")
	if !ok || sym.Kind != KindVariable {
		t.Fatalf("expected re-declaration to overwrite, got %+v", sym)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 symbols, got %d", set.Len())
	}
}
