package extract

import "strings"

// stripCStyleComments blanks out // line comments and /* */ blocks while
// preserving line structure. The scan is not string-literal aware: a "//"
// inside a string literal is treated as a comment start. That matches the
// documented best-effort contract of the regex extractors.
func stripCStyleComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	i := 0
	for i < len(src) {
		if src[i] == '/' && i+1 < len(src) {
			switch src[i+1] {
			case '/':
				for i < len(src) && src[i] != '\n' {
					i++
				}
				continue
			case '*':
				i += 2
				for i < len(src) {
					if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
						i += 2
						break
					}
					if src[i] == '\n' {
						b.WriteByte('\n')
					}
					i++
				}
				continue
			}
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// stripHashComments blanks out # line comments, same caveats as above.
func stripHashComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	i := 0
	for i < len(src) {
		if src[i] == '#' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}
