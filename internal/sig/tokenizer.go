package sig

import "strings"

// SplitParams splits a raw parameter list into its top-level comma-separated
// segments. A single nesting depth covers all four bracket pairs, so commas
// inside generics, tuples, slices, and function types stay attached to their
// segment. The trailing segment is emitted even without a closing comma.
func SplitParams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var (
		segments []string
		start    int
		depth    int
	)
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				segments = append(segments, strings.TrimSpace(raw[start:i]))
				start = i + 1
			}
		}
	}
	last := strings.TrimSpace(raw[start:])
	if last != "" {
		segments = append(segments, last)
	}
	return segments
}
