package sig

import "strings"

// NormalizeType collapses whitespace runs so raw type text compares by exact
// string equality. No semantic equivalence is attempted.
func NormalizeType(raw string) string {
	fields := strings.Fields(raw)
	return strings.Join(fields, " ")
}

// NormalizeCxxType additionally collapses spacing around pointer and
// reference sigils, so "const char *" and "const char*" compare equal.
func NormalizeCxxType(raw string) string {
	s := NormalizeType(raw)
	s = strings.ReplaceAll(s, " *", "*")
	s = strings.ReplaceAll(s, "* ", "*")
	s = strings.ReplaceAll(s, " &", "&")
	s = strings.ReplaceAll(s, "& ", "&")
	return s
}

// TypesEqual compares two raw type strings after normalization.
func TypesEqual(a, b string) bool {
	return NormalizeType(a) == NormalizeType(b)
}
