package extract

import (
	"regexp"
	"strings"

	"apidrift/internal/sig"
)

// SwiftExtractor scans comment-stripped Swift source for public/open
// declarations. Function identity includes the external argument label
// sequence, because Swift overloads on labels alone: a function keys as
// name(label1:label2:...) with "_" standing in for an omitted label, and as
// the bare name when it takes no parameters.
type SwiftExtractor struct{}

var (
	swiftFuncRe      = regexp.MustCompile(`(?m)^\s*(?:public|open)\s+((?:static|final|class|override)\s+)*func\s+(\w+)\s*(<[^>]*>)?\s*\(`)
	swiftTypeRe      = regexp.MustCompile(`(?m)^\s*(?:public|open)\s+(?:final\s+)?(class|struct)\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftEnumRe      = regexp.MustCompile(`(?m)^\s*(?:public|open)\s+enum\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftProtocolRe  = regexp.MustCompile(`(?m)^\s*public\s+protocol\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftAliasRe     = regexp.MustCompile(`(?m)^\s*public\s+typealias\s+(\w+)\s*=\s*(.+)$`)
	swiftVarRe       = regexp.MustCompile(`(?m)^\s*(?:public|open)\s+(?:static\s+)?(var|let)\s+(\w+)\s*:\s*([^={\n]+)`)
	swiftCaseRe      = regexp.MustCompile(`(?m)^\s*case\s+(.+)$`)
	swiftProtoVarRe  = regexp.MustCompile(`(?m)^\s*var\s+(\w+)\s*:\s*([^{\n]+?)\s*\{`)
	swiftProtoFuncRe = regexp.MustCompile(`(?m)^\s*(static\s+)?func\s+(\w+)\s*(<[^>]*>)?\s*\(`)
	swiftInitRe      = regexp.MustCompile(`(?m)^\s*(?:public\s+)?init\s*\(`)
)

func (e *SwiftExtractor) Name() string { return "swift" }

func (e *SwiftExtractor) Patterns() []string { return []string{".swift"} }

func (e *SwiftExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripCStyleComments(source)
	set := sig.NewSet()

	typeSpans := e.extractTypes(src, set)

	for _, m := range swiftFuncRe.FindAllStringSubmatchIndex(src, -1) {
		if insideSpans(m[0], typeSpans) {
			continue
		}
		fn := e.parseFunc(src, m)
		if fn == nil {
			continue
		}
		key := swiftKey(fn)
		set.Put(&sig.Symbol{Key: key, Name: fn.Name, Kind: sig.KindFunction, Func: fn})
	}

	for _, m := range swiftAliasRe.FindAllStringSubmatchIndex(src, -1) {
		if insideSpans(m[0], typeSpans) {
			continue
		}
		name := src[m[2]:m[3]]
		def := sig.NormalizeType(src[m[4]:m[5]])
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindTypeAlias, Alias: def})
	}

	for _, m := range swiftVarRe.FindAllStringSubmatchIndex(src, -1) {
		if insideSpans(m[0], typeSpans) {
			continue
		}
		name := src[m[4]:m[5]]
		typ := sig.NormalizeType(src[m[6]:m[7]])
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindVariable, Variable: &sig.VarDecl{Type: typ}})
	}

	return set, nil
}

// parseFunc reads the parameter list and suffix for a func whose regex match
// ends at the opening paren.
func (e *SwiftExtractor) parseFunc(src string, m []int) *sig.Function {
	name := src[m[4]:m[5]]
	paramsRaw, after, ok := balancedSpan(src, m[1]-1, '(', ')')
	if !ok {
		return nil
	}

	fn := &sig.Function{
		Name:       name,
		Params:     parseSwiftParams(paramsRaw),
		ReturnType: "Void",
		IsStatic:   m[2] >= 0 && strings.Contains(src[m[2]:m[3]], "static"),
	}
	if m[6] >= 0 {
		fn.TypeParams = genericArity(src[m[6]:m[7]])
	}

	suffix := src[after:]
	if end := strings.IndexByte(suffix, '{'); end >= 0 {
		suffix = suffix[:end]
	} else if end := strings.IndexByte(suffix, '\n'); end >= 0 {
		suffix = suffix[:end]
	}
	if strings.Contains(suffix, "async") {
		fn.IsAsync = true
	}
	if idx := strings.Index(suffix, "->"); idx >= 0 {
		fn.ReturnType = sig.NormalizeType(suffix[idx+2:])
	}
	return fn
}

// swiftKey builds the label-sequence identity for a function.
func swiftKey(fn *sig.Function) string {
	if len(fn.Params) == 0 {
		return fn.Name
	}
	var b strings.Builder
	b.WriteString(fn.Name)
	b.WriteByte('(')
	for _, p := range fn.Params {
		label := p.Label
		if label == "" {
			label = "_"
		}
		b.WriteString(label)
		b.WriteByte(':')
	}
	b.WriteByte(')')
	return b.String()
}

func parseSwiftParams(raw string) []sig.Param {
	var params []sig.Param
	for _, seg := range sig.SplitParams(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		p := sig.Param{}
		if eq := topLevelIndex(seg, '='); eq >= 0 {
			p.Optional = true
			seg = strings.TrimSpace(seg[:eq])
		}

		colon := topLevelIndex(seg, ':')
		head := seg
		if colon >= 0 {
			head = strings.TrimSpace(seg[:colon])
			typ := strings.TrimSpace(seg[colon+1:])
			if strings.HasPrefix(typ, "inout ") {
				p.Mutable = true
				typ = strings.TrimPrefix(typ, "inout ")
			}
			p.Type = sig.NormalizeType(typ)
		}

		fields := strings.Fields(head)
		switch len(fields) {
		case 0:
		case 1:
			p.Label = fields[0]
			p.Name = fields[0]
		default:
			p.Label = fields[0]
			p.Name = fields[len(fields)-1]
		}
		if p.Label == "_" {
			p.Label = ""
		}
		params = append(params, p)
	}
	return params
}

func (e *SwiftExtractor) extractTypes(src string, set *sig.Set) []span {
	var spans []span

	for _, m := range swiftTypeRe.FindAllStringSubmatchIndex(src, -1) {
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
				if base != "" {
					decl.Bases = append(decl.Bases, base)
				}
			}
		}

		for _, mm := range swiftFuncRe.FindAllStringSubmatchIndex(body, -1) {
			fn := e.parseFunc(body, mm)
			if fn == nil {
				continue
			}
			fn.Name = swiftKey(fn)
			decl.Methods = append(decl.Methods, fn)
		}
		for _, mm := range swiftVarRe.FindAllStringSubmatchIndex(body, -1) {
			decl.Members = append(decl.Members, sig.Member{
				Name: body[mm[4]:mm[5]],
				Type: sig.NormalizeType(body[mm[6]:mm[7]]),
			})
		}
		if im := swiftInitRe.FindStringSubmatchIndex(body); im != nil {
			if paramsRaw, _, ok := balancedSpan(body, im[1]-1, '(', ')'); ok {
				decl.Ctor = &sig.Function{Name: "init", Params: parseSwiftParams(paramsRaw)}
			}
		}

		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
	}

	for _, m := range swiftEnumRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		body, end, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: end})

		decl := &sig.EnumDecl{}
		for _, cm := range swiftCaseRe.FindAllStringSubmatch(body, -1) {
			for _, part := range sig.SplitParams(cm[1]) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				member := sig.EnumMember{}
				if eq := strings.Index(part, "="); eq >= 0 {
					member.Name = strings.TrimSpace(part[:eq])
					member.Value = strings.Trim(strings.TrimSpace(part[eq+1:]), `"`)
				} else {
					caseName, next := readIdent(part, 0)
					member.Name = caseName
					if rest := strings.TrimSpace(part[next:]); strings.HasPrefix(rest, "(") {
						if assoc, _, ok := balancedSpan(rest, 0, '(', ')'); ok {
							member.Value = sig.NormalizeType(assoc)
						}
					}
				}
				if member.Name != "" {
					decl.Members = append(decl.Members, member)
				}
			}
		}
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindEnum, Enum: decl})
	}

	for _, m := range swiftProtocolRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		body, end, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: end})

		decl := &sig.InterfaceDecl{}
		if m[4] >= 0 {
			for _, base := range sig.SplitParams(src[m[4]:m[5]]) {
				base = strings.TrimSpace(base)
				if base != "" {
					decl.Extends = append(decl.Extends, base)
				}
			}
		}

		for _, mm := range swiftProtoFuncRe.FindAllStringSubmatchIndex(body, -1) {
			paramsRaw, after, ok := balancedSpan(body, mm[1]-1, '(', ')')
			if !ok {
				continue
			}
			fn := &sig.Function{
				Name:       body[mm[4]:mm[5]],
				Params:     parseSwiftParams(paramsRaw),
				ReturnType: "Void",
				IsStatic:   mm[2] >= 0,
			}
			suffix := body[after:]
			if end := strings.IndexByte(suffix, '\n'); end >= 0 {
				suffix = suffix[:end]
			}
			if idx := strings.Index(suffix, "->"); idx >= 0 {
				fn.ReturnType = sig.NormalizeType(suffix[idx+2:])
			}
			fn.Name = swiftKey(fn)
			decl.Methods = append(decl.Methods, fn)
		}
		for _, mm := range swiftProtoVarRe.FindAllStringSubmatch(body, -1) {
			decl.Properties = append(decl.Properties, sig.Member{
				Name: mm[1],
				Type: sig.NormalizeType(mm[2]),
			})
		}

		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindInterface, Iface: decl})
	}

	return spans
}
