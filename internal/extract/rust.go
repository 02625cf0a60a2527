package extract

import (
	"regexp"
	"strings"

	"apidrift/internal/sig"
)

// RustExtractor scans comment-stripped Rust source for pub items. Methods in
// impl blocks attach to their type's declaration; self parameters in any of
// their spellings are flagged as receivers and excluded from comparisons
// downstream.
type RustExtractor struct{}

var (
	rustFnRe     = regexp.MustCompile(`(?m)^\s*pub\s+(?:const\s+)?(async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+(\w+)\s*(<[^>]*>)?\s*\(`)
	rustStructRe = regexp.MustCompile(`(?m)^\s*pub\s+struct\s+(\w+)\s*(<[^>]*>)?\s*([({;])`)
	rustTraitRe  = regexp.MustCompile(`(?m)^\s*pub\s+(?:unsafe\s+)?trait\s+(\w+)\s*(?:<[^>]*>)?\s*(?::\s*([^{]+))?\{`)
	rustEnumRe   = regexp.MustCompile(`(?m)^\s*pub\s+enum\s+(\w+)\s*(?:<[^>]*>)?\s*\{`)
	rustAliasRe  = regexp.MustCompile(`(?m)^\s*pub\s+type\s+(\w+)\s*(?:<[^>]*>)?\s*=\s*([^;]+);`)
	rustConstRe  = regexp.MustCompile(`(?m)^\s*pub\s+(?:const|static)\s+(?:mut\s+)?(\w+)\s*:\s*([^=;]+)`)
	rustImplRe   = regexp.MustCompile(`(?m)^\s*impl\s*(?:<[^>]*>)?\s*(\w+)(?:<[^>]*>)?\s*\{`)
	rustTraitFnRe = regexp.MustCompile(`(?m)^\s*(?:async\s+)?fn\s+(\w+)\s*(<[^>]*>)?\s*\(`)
)

func (e *RustExtractor) Name() string { return "rust" }

func (e *RustExtractor) Patterns() []string { return []string{".rs"} }

func (e *RustExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripCStyleComments(source)
	set := sig.NewSet()

	implSpans := e.extractImpls(src, set)
	traitSpans := e.extractTraits(src, set)
	spans := append(implSpans, traitSpans...)

	e.extractStructs(src, set)
	e.extractEnums(src, set)

	for _, m := range rustFnRe.FindAllStringSubmatchIndex(src, -1) {
		if insideSpans(m[0], spans) {
			continue
		}
		fn := e.parseFn(src, m)
		if fn == nil {
			continue
		}
		set.Put(&sig.Symbol{Key: fn.Name, Name: fn.Name, Kind: sig.KindFunction, Func: fn})
	}

	for _, m := range rustAliasRe.FindAllStringSubmatch(src, -1) {
		set.Put(&sig.Symbol{Key: m[1], Name: m[1], Kind: sig.KindTypeAlias, Alias: sig.NormalizeType(m[2])})
	}

	for _, m := range rustConstRe.FindAllStringSubmatch(src, -1) {
		set.Put(&sig.Symbol{
			Key: m[1], Name: m[1], Kind: sig.KindVariable,
			Variable: &sig.VarDecl{Type: sig.NormalizeType(m[2])},
		})
	}

	return set, nil
}

func (e *RustExtractor) parseFn(src string, m []int) *sig.Function {
	name := src[m[4]:m[5]]
	paramsRaw, after, ok := balancedSpan(src, m[1]-1, '(', ')')
	if !ok {
		return nil
	}

	fn := &sig.Function{
		Name:       name,
		IsAsync:    m[2] >= 0,
		Params:     parseRustParams(paramsRaw),
		ReturnType: "()",
	}
	if m[6] >= 0 {
		fn.TypeParams = genericArity(src[m[6]:m[7]])
	}

	suffix := src[after:]
	end := len(suffix)
	for i := 0; i < len(suffix); i++ {
		if suffix[i] == '{' || suffix[i] == ';' {
			end = i
			break
		}
	}
	suffix = suffix[:end]
	if idx := strings.Index(suffix, "->"); idx >= 0 {
		ret := suffix[idx+2:]
		if w := strings.Index(ret, " where "); w >= 0 {
			ret = ret[:w]
		}
		fn.ReturnType = sig.NormalizeType(ret)
	}
	return fn
}

func parseRustParams(raw string) []sig.Param {
	var params []sig.Param
	for _, seg := range sig.SplitParams(raw) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if isRustReceiver(seg) {
			params = append(params, sig.Param{
				Name:     "self",
				Receiver: true,
				Mutable:  strings.Contains(seg, "mut "),
			})
			continue
		}

		p := sig.Param{}
		if colon := topLevelIndex(seg, ':'); colon >= 0 {
			head := strings.TrimSpace(seg[:colon])
			if strings.HasPrefix(head, "mut ") {
				p.Mutable = true
				head = strings.TrimPrefix(head, "mut ")
			}
			p.Name = head
			p.Type = sig.NormalizeType(seg[colon+1:])
		} else {
			p.Type = sig.NormalizeType(seg)
		}
		params = append(params, p)
	}
	return params
}

func (e *RustExtractor) extractStructs(src string, set *sig.Set) {
	for _, m := range rustStructRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		opener := src[m[6]:m[7]]

		decl := &sig.TypeDecl{Kind: "struct"}
		switch opener {
		case "{":
			body, _, ok := balancedSpan(src, m[7]-1, '{', '}')
			if !ok {
				continue
			}
			for _, seg := range sig.SplitParams(body) {
				seg = strings.TrimSpace(seg)
				if !strings.HasPrefix(seg, "pub ") {
					continue
				}
				seg = strings.TrimPrefix(seg, "pub ")
				if colon := topLevelIndex(seg, ':'); colon >= 0 {
					decl.Members = append(decl.Members, sig.Member{
						Name: strings.TrimSpace(seg[:colon]),
						Type: sig.NormalizeType(seg[colon+1:]),
					})
				}
			}
		case "(":
			fields, _, ok := balancedSpan(src, m[7]-1, '(', ')')
			if !ok {
				continue
			}
			for i, seg := range sig.SplitParams(fields) {
				seg = strings.TrimSpace(seg)
				if !strings.HasPrefix(seg, "pub ") {
					continue
				}
				decl.Members = append(decl.Members, sig.Member{
					Name: positionalFieldName(i),
					Type: sig.NormalizeType(strings.TrimPrefix(seg, "pub ")),
				})
			}
		}

		// An impl block scanned earlier may already have created the symbol.
		if existing, ok := set.Get(name); ok && existing.Kind == sig.KindType && existing.Type != nil {
			existing.Type.Kind = "struct"
			existing.Type.Members = decl.Members
			continue
		}
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
	}
}

func positionalFieldName(i int) string {
	return "." + string(rune('0'+i))
}

func (e *RustExtractor) extractEnums(src string, set *sig.Set) {
	for _, m := range rustEnumRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		body, _, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}

		decl := &sig.EnumDecl{}
		for _, seg := range sig.SplitParams(body) {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			member := sig.EnumMember{}
			variant, next := readIdent(seg, 0)
			if variant == "" {
				continue
			}
			member.Name = variant
			rest := strings.TrimSpace(seg[next:])
			switch {
			case strings.HasPrefix(rest, "="):
				member.Value = strings.TrimSpace(strings.TrimPrefix(rest, "="))
			case strings.HasPrefix(rest, "("):
				if assoc, _, ok := balancedSpan(rest, 0, '(', ')'); ok {
					member.Value = sig.NormalizeType(assoc)
				}
			case strings.HasPrefix(rest, "{"):
				if fields, _, ok := balancedSpan(rest, 0, '{', '}'); ok {
					member.Value = sig.NormalizeType(fields)
				}
			}
			decl.Members = append(decl.Members, member)
		}
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindEnum, Enum: decl})
	}
}

// extractImpls attaches pub fns in inherent impl blocks to their type. Trait
// impls (impl Trait for Type) are skipped; they restate the trait surface.
func (e *RustExtractor) extractImpls(src string, set *sig.Set) []span {
	var spans []span
	for _, m := range rustImplRe.FindAllStringSubmatchIndex(src, -1) {
		typeName := src[m[2]:m[3]]
		body, end, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: end})

		var decl *sig.TypeDecl
		if existing, ok := set.Get(typeName); ok && existing.Type != nil {
			decl = existing.Type
		} else {
			decl = &sig.TypeDecl{Kind: "struct"}
			set.Put(&sig.Symbol{Key: typeName, Name: typeName, Kind: sig.KindType, Type: decl})
		}

		for _, mm := range rustFnRe.FindAllStringSubmatchIndex(body, -1) {
			fn := e.parseFn(body, mm)
			if fn == nil {
				continue
			}
			if fn.Name == "new" && decl.Ctor == nil {
				decl.Ctor = fn
				continue
			}
			decl.Methods = append(decl.Methods, fn)
		}
	}
	return spans
}

func (e *RustExtractor) extractTraits(src string, set *sig.Set) []span {
	var spans []span
	for _, m := range rustTraitRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		body, end, ok := balancedSpan(src, m[1]-1, '{', '}')
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: end})

		decl := &sig.InterfaceDecl{}
		if m[4] >= 0 {
			for _, base := range strings.Split(src[m[4]:m[5]], "+") {
				base = strings.TrimSpace(base)
				if base != "" {
					decl.Extends = append(decl.Extends, base)
				}
			}
		}

		for _, mm := range rustTraitFnRe.FindAllStringSubmatchIndex(body, -1) {
			fnName := body[mm[2]:mm[3]]
			paramsRaw, after, ok := balancedSpan(body, mm[1]-1, '(', ')')
			if !ok {
				continue
			}
			fn := &sig.Function{
				Name:       fnName,
				Params:     parseRustParams(paramsRaw),
				ReturnType: "()",
			}
			if mm[4] >= 0 {
				fn.TypeParams = genericArity(body[mm[4]:mm[5]])
			}
			suffix := body[after:]
			stop := len(suffix)
			for i := 0; i < len(suffix); i++ {
				if suffix[i] == '{' || suffix[i] == ';' {
					stop = i
					break
				}
			}
			if idx := strings.Index(suffix[:stop], "->"); idx >= 0 {
				fn.ReturnType = sig.NormalizeType(suffix[idx+2 : stop])
			}
			decl.Methods = append(decl.Methods, fn)
		}

		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindInterface, Iface: decl})
	}
	return spans
}
