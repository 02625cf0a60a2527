package extract

import (
	"regexp"
	"strings"

	"apidrift/internal/sig"
)

// CxxExtractor scans comment-stripped C/C++ source. Struct/class bodies are
// split on public:/private:/protected: labels; default visibility is public
// for struct and private for class, so a plain struct member and a member
// under an explicit public: label are treated identically. Free functions are
// extracted at file scope unless declared static (file-local in C).
type CxxExtractor struct{}

var cxxTypeDeclRe = regexp.MustCompile(`(?m)\b(struct|class)\s+(\w+)\s*(?::\s*([^{;]+))?\{`)

func (e *CxxExtractor) Name() string { return "cpp" }

func (e *CxxExtractor) Patterns() []string {
	return []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh"}
}

func (e *CxxExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripPreprocessor(stripCStyleComments(source))
	set := sig.NewSet()

	spans := e.extractTypes(src, set)
	e.extractFreeFunctions(src, spans, set)

	return set, nil
}

func (e *CxxExtractor) extractTypes(src string, set *sig.Set) []span {
	var spans []span
	for _, m := range cxxTypeDeclRe.FindAllStringSubmatchIndex(src, -1) {
		kind := src[m[2]:m[3]]
		name := src[m[4]:m[5]]

		body, end, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: end})

		decl := &sig.TypeDecl{Kind: kind}
		if m[6] >= 0 {
			for _, base := range sig.SplitParams(src[m[6]:m[7]]) {
				base = strings.TrimSpace(base)
				for _, access := range []string{"public ", "protected ", "private ", "virtual "} {
					base = strings.TrimPrefix(base, access)
				}
				if base != "" {
					decl.Bases = append(decl.Bases, sig.NormalizeCxxType(base))
				}
			}
		}

		for _, section := range splitCxxSections(body, kind == "struct") {
			if !section.public {
				continue
			}
			e.parseSection(section.text, name, decl)
		}

		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
	}
	return spans
}

// stripPreprocessor blanks out # directive lines. Directives carry no
// terminating semicolon, so leaving them in would glue them onto the next
// statement.
func stripPreprocessor(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

type cxxSection struct {
	public bool
	text   string
}

// splitCxxSections cuts a struct/class body at access labels. defaultPublic
// selects the visibility of the text before the first label.
func splitCxxSections(body string, defaultPublic bool) []cxxSection {
	labels := []struct {
		word   string
		public bool
	}{
		{"public:", true},
		{"protected:", false},
		{"private:", false},
	}

	var sections []cxxSection
	current := cxxSection{public: defaultPublic}
	start := 0
	depth := 0

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth != 0 {
			continue
		}
		for _, label := range labels {
			if i+len(label.word) > len(body) || body[i:i+len(label.word)] != label.word {
				continue
			}
			if i > 0 && isIdentByte(body[i-1]) {
				continue
			}
			current.text = body[start:i]
			sections = append(sections, current)
			current = cxxSection{public: label.public}
			start = i + len(label.word)
			i = start - 1
			break
		}
	}
	current.text = body[start:]
	sections = append(sections, current)
	return sections
}

// parseSection walks one visibility segment statement by statement.
func (e *CxxExtractor) parseSection(text, className string, decl *sig.TypeDecl) {
	for _, stmt := range cxxStatements(text) {
		member := parseCxxDeclaration(stmt, className)
		if member == nil {
			continue
		}
		switch {
		case member.ctor != nil:
			decl.Ctor = member.ctor
		case member.fn != nil:
			decl.Methods = append(decl.Methods, member.fn)
		case member.fieldName != "":
			decl.Members = append(decl.Members, sig.Member{Name: member.fieldName, Type: member.fieldType})
		}
	}
}

// cxxStatements splits text into declarations, treating a balanced brace
// block as the end of a definition and a depth-zero semicolon as the end of
// a declaration.
func cxxStatements(text string) []string {
	var stmts []string
	start := 0
	i := 0
	for i < len(text) {
		switch text[i] {
		case ';':
			stmts = append(stmts, text[start:i])
			i++
			start = i
		case '{':
			_, after, ok := balancedSpan(text, i, '{', '}')
			if !ok {
				return stmts
			}
			stmts = append(stmts, text[start:i])
			i = after
			start = i
		case '(':
			// A parameter list stays inside its declaration; a defaulted
			// parameter's '=' is not an initializer.
			if _, after, ok := balancedSpan(text, i, '(', ')'); ok {
				i = after
				continue
			}
			i++
		case '=':
			// Initializer: keep the declaration head only.
			stmts = append(stmts, text[start:i])
			for i < len(text) && text[i] != ';' {
				if text[i] == '{' {
					if _, after, ok := balancedSpan(text, i, '{', '}'); ok {
						i = after
						continue
					}
				}
				i++
			}
			i++
			start = i
		default:
			i++
		}
	}
	if strings.TrimSpace(text[start:]) != "" {
		stmts = append(stmts, text[start:])
	}
	return stmts
}

type cxxMember struct {
	fn        *sig.Function
	ctor      *sig.Function
	fieldName string
	fieldType string
}

// parseCxxDeclaration interprets one statement as a method, constructor, or
// data member. Destructors, operators, and statements led by a control-flow
// keyword are skipped.
func parseCxxDeclaration(stmt, className string) *cxxMember {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || strings.HasPrefix(stmt, "#") || strings.HasPrefix(stmt, "~") {
		return nil
	}

	firstWord, _ := readIdent(stmt, 0)
	if cxxStatementKeywords[firstWord] {
		return nil
	}
	if strings.Contains(stmt, "operator") {
		return nil
	}

	isStatic := false
	for {
		trimmed := false
		for _, prefix := range []string{"static ", "inline ", "virtual ", "explicit ", "constexpr ", "extern ", "friend "} {
			if strings.HasPrefix(stmt, prefix) {
				if prefix == "static " {
					isStatic = true
				}
				if prefix == "friend " {
					return nil
				}
				stmt = strings.TrimSpace(strings.TrimPrefix(stmt, prefix))
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}

	open := topLevelIndex(stmt, '(')
	if open < 0 {
		return parseCxxField(stmt)
	}

	head := strings.TrimSpace(stmt[:open])
	paramsRaw, _, ok := balancedSpan(stmt, open, '(', ')')
	if !ok {
		return nil
	}

	name, ret := cxxSplitHead(head)
	if name == "" || strings.HasPrefix(name, "~") {
		return nil
	}

	fn := &sig.Function{
		Name:       name,
		Params:     parseCxxParams(paramsRaw),
		ReturnType: sig.NormalizeCxxType(ret),
		IsStatic:   isStatic,
	}
	if className != "" && name == className && ret == "" {
		return &cxxMember{ctor: fn}
	}
	if ret == "" {
		// A call or macro expansion, not a declaration.
		return nil
	}
	return &cxxMember{fn: fn}
}

// cxxSplitHead splits "const std::string& name" style heads into the
// trailing declarator name and the return/field type before it.
func cxxSplitHead(head string) (name, typ string) {
	if head == "" {
		return "", ""
	}
	end := len(head)
	for end > 0 && isIdentByte(head[end-1]) {
		end--
	}
	name = head[end:]
	typ = strings.TrimSpace(head[:end])
	// Qualified declarator: Type Foo::bar → name "Foo::bar".
	for strings.HasSuffix(typ, "::") {
		typ = strings.TrimSuffix(typ, "::")
		prev := len(typ)
		for prev > 0 && isIdentByte(typ[prev-1]) {
			prev--
		}
		name = typ[prev:] + "::" + name
		typ = strings.TrimSpace(typ[:prev])
	}
	return name, typ
}

func parseCxxField(stmt string) *cxxMember {
	name, typ := cxxSplitHead(stmt)
	if name == "" || typ == "" {
		return nil
	}
	return &cxxMember{fieldName: name, fieldType: sig.NormalizeCxxType(typ)}
}

func parseCxxParams(raw string) []sig.Param {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "void" {
		return nil
	}
	var params []sig.Param
	for _, seg := range sig.SplitParams(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "..." {
			continue
		}
		p := sig.Param{}
		if eq := topLevelIndex(seg, '='); eq >= 0 {
			p.Optional = true
			seg = strings.TrimSpace(seg[:eq])
		}
		name, typ := cxxSplitHead(seg)
		if typ == "" {
			// Unnamed parameter: the whole segment is the type.
			p.Type = sig.NormalizeCxxType(seg)
		} else {
			p.Name = name
			p.Type = sig.NormalizeCxxType(typ)
		}
		params = append(params, p)
	}
	return params
}

// extractFreeFunctions scans file-scope statements outside every struct or
// class span.
func (e *CxxExtractor) extractFreeFunctions(src string, exclude []span, set *sig.Set) {
	var out strings.Builder
	last := 0
	for _, s := range exclude {
		if s.start > last {
			out.WriteString(src[last:s.start])
		}
		if s.end > last {
			last = s.end
		}
	}
	if last < len(src) {
		out.WriteString(src[last:])
	}

	for _, stmt := range cxxStatements(out.String()) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "#") {
			continue
		}
		if strings.HasPrefix(stmt, "static ") {
			continue
		}
		member := parseCxxDeclaration(stmt, "")
		if member == nil || member.fn == nil {
			continue
		}
		set.Put(&sig.Symbol{Key: member.fn.Name, Name: member.fn.Name, Kind: sig.KindFunction, Func: member.fn})
	}
}
