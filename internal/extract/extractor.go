package extract

import (
	"strings"

	"apidrift/internal/sig"
)

// Extractor turns one revision of a source file into a signature set.
// Regex-backed extractors never fail: constructs they cannot match are
// silently absent from the result. The AST-backed extractor reports an
// error only when the whole file cannot be parsed at all.
type Extractor interface {
	Name() string
	// Patterns lists lowercase file extensions (".go") or glob patterns
	// ("*.api.json") this extractor claims. A single "*" claims every path.
	Patterns() []string
	// Extract parses one revision of the file at path. Regex extractors
	// ignore the path; the AST extractor uses its extension to pick a
	// grammar dialect.
	Extract(path string, source string) (*sig.Set, error)
}

// balancedSpan returns the text between the opening delimiter at src[open]
// and its matching close, plus the index just past the close. Returns
// ok=false when the delimiters never balance before end of input.
func balancedSpan(src string, open int, openCh, closeCh byte) (string, int, bool) {
	if open >= len(src) || src[open] != openCh {
		return "", open, false
	}
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, true
			}
		}
	}
	return "", open, false
}

// skipSpaces advances past ASCII whitespace.
func skipSpaces(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

// readIdent consumes an identifier (letters, digits, underscore) starting at
// i and returns it with the next index.
func readIdent(src string, i int) (string, int) {
	start := i
	for i < len(src) {
		c := src[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			i++
			continue
		}
		break
	}
	return src[start:i], i
}

// genericArity counts top-level type parameters in a "<...>" clause.
func genericArity(clause string) int {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return 0
	}
	clause = strings.TrimPrefix(clause, "<")
	clause = strings.TrimSuffix(clause, ">")
	return len(sig.SplitParams(clause))
}
