package extract

import (
	"regexp"
	"strings"
	"unicode"

	"apidrift/internal/sig"
)

// GoExtractor scans comment-stripped Go source for exported declarations.
// Exported means a capitalized identifier; everything else stays out of the
// signature set.
type GoExtractor struct{}

var (
	goFuncRe  = regexp.MustCompile(`(?m)^func\b`)
	goTypeRe  = regexp.MustCompile(`(?m)^type\s+([A-Z][A-Za-z0-9_]*)`)
	goVarRe   = regexp.MustCompile(`(?m)^(?:var|const)\s+([A-Z][A-Za-z0-9_]*)\s*(.*)$`)
	goGroupRe = regexp.MustCompile(`(?m)^(?:var|const)\s*\($`)
)

func (e *GoExtractor) Name() string { return "go" }

func (e *GoExtractor) Patterns() []string { return []string{".go"} }

func (e *GoExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripCStyleComments(source)
	set := sig.NewSet()

	e.extractFuncs(src, set)
	e.extractTypes(src, set)
	e.extractVars(src, set)

	return set, nil
}

func (e *GoExtractor) extractFuncs(src string, set *sig.Set) {
	for _, loc := range goFuncRe.FindAllStringIndex(src, -1) {
		i := skipSpaces(src, loc[1])

		receiver := ""
		if i < len(src) && src[i] == '(' {
			recv, next, ok := balancedSpan(src, i, '(', ')')
			if !ok {
				continue
			}
			receiver = recv
			i = skipSpaces(src, next)
		}

		name, next := readIdent(src, i)
		if name == "" || !isCapitalized(name) {
			continue
		}
		i = next

		typeParams := 0
		if i < len(src) && src[i] == '[' {
			clause, after, ok := balancedSpan(src, i, '[', ']')
			if !ok {
				continue
			}
			typeParams = len(sig.SplitParams(clause))
			i = after
		}

		i = skipSpaces(src, i)
		if i >= len(src) || src[i] != '(' {
			continue
		}
		paramsRaw, after, ok := balancedSpan(src, i, '(', ')')
		if !ok {
			continue
		}
		i = after

		ret := e.readReturnType(src, i)

		fn := &sig.Function{
			Name:       name,
			Params:     parseGoParams(paramsRaw),
			ReturnType: ret,
			TypeParams: typeParams,
		}

		key := name
		if receiver != "" {
			if recvType := goReceiverType(receiver); recvType != "" {
				key = recvType + "." + name
			}
		}
		set.Put(&sig.Symbol{Key: key, Name: name, Kind: sig.KindFunction, Func: fn})
	}
}

// readReturnType captures the raw return clause between the parameter list
// and the opening brace or end of line.
func (e *GoExtractor) readReturnType(src string, i int) string {
	i = skipSpaces(src, i)
	if i >= len(src) {
		return ""
	}
	if src[i] == '(' {
		multi, _, ok := balancedSpan(src, i, '(', ')')
		if !ok {
			return ""
		}
		return "(" + sig.NormalizeType(multi) + ")"
	}
	end := i
	for end < len(src) && src[end] != '{' && src[end] != '\n' {
		end++
	}
	return sig.NormalizeType(src[i:end])
}

// parseGoParams splits the raw list and back-fills grouped parameters: in
// "a, b int" the trailing explicit type applies to every bare name before it,
// so the scan runs right to left remembering the last type seen.
func parseGoParams(raw string) []sig.Param {
	segs := sig.SplitParams(raw)
	if len(segs) == 0 {
		return nil
	}

	params := make([]sig.Param, len(segs))
	for i, seg := range segs {
		name, typ := splitGoNameType(seg)
		params[i] = sig.Param{Name: name, Type: typ}
	}

	lastType := ""
	for i := len(params) - 1; i >= 0; i-- {
		if params[i].Type != "" {
			lastType = params[i].Type
			continue
		}
		params[i].Type = lastType
	}
	return params
}

// splitGoNameType splits one segment into (name, type). A lone token is a
// type when it looks like one, otherwise a bare name awaiting back-fill.
func splitGoNameType(seg string) (string, string) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return "", ""
	}

	depth := 0
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return strings.TrimSpace(seg[:i]), sig.NormalizeType(seg[i+1:])
			}
		}
	}

	if looksLikeGoType(seg) {
		return "", sig.NormalizeType(seg)
	}
	return seg, ""
}

// goReceiverType reduces "s *Server" or "s Server[T]" to "Server".
func goReceiverType(receiver string) string {
	fields := strings.Fields(receiver)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	typ = strings.TrimLeft(typ, "*")
	if idx := strings.IndexByte(typ, '['); idx >= 0 {
		typ = typ[:idx]
	}
	return typ
}

func (e *GoExtractor) extractTypes(src string, set *sig.Set) {
	for _, m := range goTypeRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		i := m[3]

		if i < len(src) && src[i] == '[' {
			_, after, ok := balancedSpan(src, i, '[', ']')
			if !ok {
				continue
			}
			i = after
		}
		i = skipSpaces(src, i)

		rest := src[i:]
		switch {
		case strings.HasPrefix(rest, "struct"):
			body, ok := goBlockBody(src, i+len("struct"))
			if !ok {
				continue
			}
			decl := &sig.TypeDecl{Kind: "struct", Members: parseGoStructMembers(body)}
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
		case strings.HasPrefix(rest, "interface"):
			body, ok := goBlockBody(src, i+len("interface"))
			if !ok {
				continue
			}
			decl := parseGoInterface(body)
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindInterface, Iface: decl})
		default:
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			def := strings.TrimSpace(strings.TrimPrefix(rest[:end], "="))
			if def == "" {
				continue
			}
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindTypeAlias, Alias: sig.NormalizeType(def)})
		}
	}
}

func goBlockBody(src string, i int) (string, bool) {
	i = skipSpaces(src, i)
	if i >= len(src) || src[i] != '{' {
		return "", false
	}
	body, _, ok := balancedSpan(src, i, '{', '}')
	return body, ok
}

func parseGoStructMembers(body string) []sig.Member {
	var members []sig.Member
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, '`'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		names, typ := splitGoNameType(line)
		if names == "" {
			// Embedded field: the bare type doubles as the member name.
			base := line
			if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
				base = base[idx+1:]
			}
			base = strings.TrimLeft(base, "*")
			if isCapitalized(base) {
				members = append(members, sig.Member{Name: base, Type: sig.NormalizeType(line)})
			}
			continue
		}
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if isCapitalized(name) {
				members = append(members, sig.Member{Name: name, Type: typ})
			}
		}
	}
	return members
}

func parseGoInterface(body string) *sig.InterfaceDecl {
	decl := &sig.InterfaceDecl{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		open := strings.IndexByte(line, '(')
		if open < 0 {
			if isCapitalized(line) || strings.Contains(line, ".") {
				decl.Extends = append(decl.Extends, line)
			}
			continue
		}
		name := strings.TrimSpace(line[:open])
		if !isCapitalized(name) {
			continue
		}
		paramsRaw, after, ok := balancedSpan(line, open, '(', ')')
		if !ok {
			continue
		}
		ret := ""
		if after < len(line) {
			ret = sig.NormalizeType(line[after:])
			if strings.HasPrefix(ret, "(") {
				ret = "(" + sig.NormalizeType(strings.Trim(ret, "()")) + ")"
			}
		}
		decl.Methods = append(decl.Methods, &sig.Function{
			Name:       name,
			Params:     parseGoParams(paramsRaw),
			ReturnType: ret,
		})
	}
	return decl
}

func (e *GoExtractor) extractVars(src string, set *sig.Set) {
	for _, m := range goVarRe.FindAllStringSubmatch(src, -1) {
		name, rest := m[1], strings.TrimSpace(m[2])
		decl := &sig.VarDecl{}
		if eq := strings.Index(rest, "="); eq >= 0 {
			typ := strings.TrimSpace(rest[:eq])
			init := strings.TrimSpace(rest[eq+1:])
			decl.Type = sig.NormalizeType(typ)
			if strings.HasPrefix(init, "func") {
				decl.Func = parseGoFuncLiteral(init)
			}
			if decl.Type == "" && decl.Func == nil {
				decl.Type = sig.NormalizeType(init)
			}
		} else {
			decl.Type = sig.NormalizeType(rest)
		}
		if decl.Type == "" && decl.Func == nil {
			continue
		}
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindVariable, Variable: decl})
	}
}

func parseGoFuncLiteral(init string) *sig.Function {
	open := strings.IndexByte(init, '(')
	if open < 0 {
		return nil
	}
	paramsRaw, after, ok := balancedSpan(init, open, '(', ')')
	if !ok {
		return nil
	}
	fn := &sig.Function{Params: parseGoParams(paramsRaw)}
	rest := strings.TrimSpace(init[after:])
	if end := strings.IndexByte(rest, '{'); end >= 0 {
		rest = rest[:end]
	}
	fn.ReturnType = sig.NormalizeType(rest)
	return fn
}

func isCapitalized(name string) bool {
	if name == "" {
		return false
	}
	first := []rune(name)[0]
	return unicode.IsUpper(first)
}
