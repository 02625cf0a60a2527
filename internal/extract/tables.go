package extract

import (
	"strings"
	"unicode"
)

// Static per-language keyword tables. Immutable after construction; shared
// read-only across concurrent extractions.

var goBuiltinTypes = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "float32": true, "float64": true,
	"complex64": true, "complex128": true,
}

// looksLikeGoType reports whether a bare token in a Go parameter group reads
// as a type rather than a parameter name.
func looksLikeGoType(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	token = strings.TrimPrefix(token, "...")
	switch {
	case strings.HasPrefix(token, "*"),
		strings.HasPrefix(token, "[]"),
		strings.HasPrefix(token, "["),
		strings.HasPrefix(token, "map["),
		strings.HasPrefix(token, "func("),
		strings.HasPrefix(token, "interface{"),
		strings.HasPrefix(token, "chan "),
		strings.HasPrefix(token, "<-chan "),
		strings.HasPrefix(token, "chan<- "),
		strings.HasPrefix(token, "struct{"):
		return true
	}
	if goBuiltinTypes[token] {
		return true
	}
	if strings.Contains(token, ".") {
		return true
	}
	first := []rune(token)
	return len(first) > 0 && unicode.IsUpper(first[0])
}

// isRustReceiver matches Rust's self-parameter spellings.
func isRustReceiver(raw string) bool {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "self", "&self", "&mut self", "mut self":
		return true
	}
	return strings.HasPrefix(raw, "self:") || strings.HasPrefix(raw, "mut self:")
}

// cxxStatementKeywords are tokens that start control flow, not declarations.
var cxxStatementKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "switch": true,
	"return": true, "do": true, "case": true, "goto": true, "delete": true,
	"new": true, "throw": true, "catch": true, "sizeof": true, "typedef": true,
	"using": true, "namespace": true, "template": true, "static_assert": true,
}

var javaModifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "synchronized": true, "native": true,
	"default": true, "strictfp": true,
}
