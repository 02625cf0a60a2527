package extract

import (
	"regexp"
	"strings"

	"apidrift/internal/sig"
)

// PythonExtractor scans hash-comment-stripped Python source. Python has no
// enforced visibility, so every module-level def and class is extracted.
// Methods live inside their class declaration, keyed within the class rather
// than at file level; a position-zero self/cls parameter marks a method
// receiver (positional heuristic, not type-checked).
type PythonExtractor struct{}

var (
	pyDefRe   = regexp.MustCompile(`(?m)^(async\s+)?def\s+(\w+)\s*\(`)
	pyClassRe = regexp.MustCompile(`(?m)^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	pyMethRe  = regexp.MustCompile(`(?m)^[ \t]+(async\s+)?def\s+(\w+)\s*\(`)
)

func (e *PythonExtractor) Name() string { return "python" }

func (e *PythonExtractor) Patterns() []string { return []string{".py"} }

func (e *PythonExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripHashComments(source)
	set := sig.NewSet()

	classSpans := e.extractClasses(src, set)

	for _, m := range pyDefRe.FindAllStringSubmatchIndex(src, -1) {
		if insideSpans(m[0], classSpans) {
			continue
		}
		fn := e.parseDef(src, m, false)
		if fn == nil {
			continue
		}
		set.Put(&sig.Symbol{Key: fn.Name, Name: fn.Name, Kind: sig.KindFunction, Func: fn})
	}

	return set, nil
}

type span struct{ start, end int }

func insideSpans(pos int, spans []span) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

func (e *PythonExtractor) extractClasses(src string, set *sig.Set) []span {
	var spans []span
	for _, m := range pyClassRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		bases := ""
		if m[4] >= 0 {
			bases = src[m[4]:m[5]]
		}

		bodyStart := m[1]
		bodyEnd := pythonBlockEnd(src, bodyStart)
		spans = append(spans, span{start: m[0], end: bodyEnd})

		decl := &sig.TypeDecl{Kind: "class"}
		for _, base := range sig.SplitParams(bases) {
			base = strings.TrimSpace(base)
			if base != "" && base != "object" {
				decl.Bases = append(decl.Bases, base)
			}
		}

		body := src[bodyStart:bodyEnd]
		for _, mm := range pyMethRe.FindAllStringSubmatchIndex(body, -1) {
			fn := e.parseDef(body, mm, true)
			if fn == nil {
				continue
			}
			if fn.Name == "__init__" {
				decl.Ctor = fn
				continue
			}
			decl.Methods = append(decl.Methods, fn)
		}

		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
	}
	return spans
}

// pythonBlockEnd finds the end of an indented block: the next non-blank line
// starting at column zero.
func pythonBlockEnd(src string, start int) int {
	i := start
	for i < len(src) {
		lineEnd := strings.IndexByte(src[i:], '\n')
		if lineEnd < 0 {
			return len(src)
		}
		next := i + lineEnd + 1
		if next < len(src) {
			c := src[next]
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				return next
			}
		}
		i = next
	}
	return len(src)
}

func (e *PythonExtractor) parseDef(src string, m []int, method bool) *sig.Function {
	name := src[m[4]:m[5]]
	open := m[1] - 1 // regex consumed the opening paren
	paramsRaw, after, ok := balancedSpan(src, open, '(', ')')
	if !ok {
		return nil
	}

	fn := &sig.Function{
		Name:       name,
		IsAsync:    m[2] >= 0,
		Params:     parsePythonParams(paramsRaw, method),
		ReturnType: "None",
	}

	rest := src[after:]
	if end := strings.IndexByte(rest, ':'); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "->") {
		fn.ReturnType = sig.NormalizeType(strings.TrimPrefix(rest, "->"))
	}
	return fn
}

func parsePythonParams(raw string, method bool) []sig.Param {
	var params []sig.Param
	for i, seg := range sig.SplitParams(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "*" || seg == "/" {
			continue
		}

		p := sig.Param{}
		if strings.HasPrefix(seg, "**") || strings.HasPrefix(seg, "*") {
			p.Optional = true
			seg = strings.TrimLeft(seg, "*")
		}
		if eq := topLevelIndex(seg, '='); eq >= 0 {
			p.Optional = true
			seg = strings.TrimSpace(seg[:eq])
		}
		if colon := topLevelIndex(seg, ':'); colon >= 0 {
			p.Type = sig.NormalizeType(seg[colon+1:])
			seg = strings.TrimSpace(seg[:colon])
		}
		p.Name = seg

		if method && i == 0 && (p.Name == "self" || p.Name == "cls") {
			p.Receiver = true
		}
		params = append(params, p)
	}
	return params
}

// topLevelIndex finds the first depth-zero occurrence of ch.
func topLevelIndex(s string, ch byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		if depth == 0 && s[i] == ch {
			return i
		}
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		}
	}
	return -1
}
