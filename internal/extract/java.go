package extract

import (
	"regexp"
	"strings"

	"apidrift/internal/sig"
)

// JavaExtractor scans comment-stripped Java source. Only the public channel
// is extracted: public top-level types, and their public members. Interface
// members are implicitly public. Constructor detection is scoped to the body
// of the class being scanned.
type JavaExtractor struct{}

var javaTypeDeclRe = regexp.MustCompile(`(?m)^\s*public\s+(?:(?:abstract|final|static|sealed|non-sealed|strictfp)\s+)*(class|interface|enum)\s+(\w+)\s*(<[^>]*>)?`)

func (e *JavaExtractor) Name() string { return "java" }

func (e *JavaExtractor) Patterns() []string { return []string{".java"} }

func (e *JavaExtractor) Extract(_ string, source string) (*sig.Set, error) {
	src := stripCStyleComments(source)
	set := sig.NewSet()

	for _, m := range javaTypeDeclRe.FindAllStringSubmatchIndex(src, -1) {
		kind := src[m[2]:m[3]]
		name := src[m[4]:m[5]]

		open := strings.IndexByte(src[m[1]:], '{')
		if open < 0 {
			continue
		}
		heritage := src[m[1] : m[1]+open]
		body, _, ok := balancedSpan(src, m[1]+open, '{', '}')
		if !ok {
			continue
		}

		switch kind {
		case "class":
			decl := e.parseClassBody(name, body)
			decl.Bases = javaHeritage(heritage)
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
		case "interface":
			decl := e.parseInterfaceBody(body)
			decl.Extends = javaHeritage(heritage)
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindInterface, Iface: decl})
		case "enum":
			decl := e.parseEnumBody(body)
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindEnum, Enum: decl})
		}
	}

	return set, nil
}

func javaHeritage(heritage string) []string {
	var bases []string
	for _, keyword := range []string{"extends", "implements"} {
		idx := strings.Index(heritage, keyword)
		if idx < 0 {
			continue
		}
		rest := heritage[idx+len(keyword):]
		if cut := strings.Index(rest, "implements"); keyword == "extends" && cut >= 0 {
			rest = rest[:cut]
		}
		for _, base := range sig.SplitParams(rest) {
			base = strings.TrimSpace(base)
			if base != "" {
				bases = append(bases, sig.NormalizeType(base))
			}
		}
	}
	return bases
}

// parseClassBody collects public members at the top nesting level of the
// class body. Method bodies and nested types are skipped by depth tracking.
func (e *JavaExtractor) parseClassBody(className, body string) *sig.TypeDecl {
	decl := &sig.TypeDecl{Kind: "class"}

	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth != 0 || !hasWordAt(body, i, "public") {
			continue
		}
		member, next := parseJavaMember(body, i+len("public"), className)
		if member == nil {
			continue
		}
		switch {
		case member.ctor != nil:
			decl.Ctor = member.ctor
		case member.fn != nil:
			decl.Methods = append(decl.Methods, member.fn)
		default:
			decl.Members = append(decl.Members, sig.Member{Name: member.fieldName, Type: member.fieldType})
		}
		i = next - 1
	}
	return decl
}

type javaMember struct {
	fn        *sig.Function
	ctor      *sig.Function
	fieldName string
	fieldType string
}

// parseJavaMember reads one declaration after its "public" keyword.
func parseJavaMember(src string, i int, className string) (*javaMember, int) {
	isStatic := false
	for {
		i = skipSpaces(src, i)
		word, next := readIdent(src, i)
		if word != "" && javaModifiers[word] {
			if word == "static" {
				isStatic = true
			}
			i = next
			continue
		}
		break
	}

	typeParams := 0
	if i < len(src) && src[i] == '<' {
		clause, after, ok := balancedSpan(src, i, '<', '>')
		if !ok {
			return nil, i + 1
		}
		typeParams = len(sig.SplitParams(clause))
		i = skipSpaces(src, after)
	}

	first, next := readJavaType(src, i)
	if first == "" {
		return nil, i + 1
	}
	i = skipSpaces(src, next)

	// Constructor: the type token is the class name and parameters follow.
	if first == className && i < len(src) && src[i] == '(' {
		paramsRaw, after, ok := balancedSpan(src, i, '(', ')')
		if !ok {
			return nil, i + 1
		}
		return &javaMember{ctor: &sig.Function{
			Name:   className,
			Params: parseJavaParams(paramsRaw),
		}}, after
	}

	name, next := readIdent(src, i)
	if name == "" {
		return nil, i + 1
	}
	i = skipSpaces(src, next)

	if i < len(src) && src[i] == '(' {
		paramsRaw, after, ok := balancedSpan(src, i, '(', ')')
		if !ok {
			return nil, i + 1
		}
		return &javaMember{fn: &sig.Function{
			Name:       name,
			Params:     parseJavaParams(paramsRaw),
			ReturnType: sig.NormalizeType(first),
			IsStatic:   isStatic,
			TypeParams: typeParams,
		}}, after
	}

	// Field: consume through the terminating semicolon.
	end := i
	for end < len(src) && src[end] != ';' && src[end] != '\n' {
		end++
	}
	return &javaMember{fieldName: name, fieldType: sig.NormalizeType(first)}, end
}

func parseJavaParams(raw string) []sig.Param {
	var params []sig.Param
	for _, seg := range sig.SplitParams(raw) {
		seg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(seg), "final "))
		if seg == "" {
			continue
		}
		// Last depth-zero space separates the name from its type.
		cut := -1
		depth := 0
		for i := 0; i < len(seg); i++ {
			switch seg[i] {
			case '<', '(', '[', '{':
				depth++
			case '>', ')', ']', '}':
				depth--
			case ' ':
				if depth == 0 {
					cut = i
				}
			}
		}
		if cut < 0 {
			params = append(params, sig.Param{Type: sig.NormalizeType(seg)})
			continue
		}
		params = append(params, sig.Param{
			Name: strings.TrimSpace(seg[cut+1:]),
			Type: sig.NormalizeType(seg[:cut]),
		})
	}
	return params
}

// parseInterfaceBody reads implicitly-public method signatures and constants.
func (e *JavaExtractor) parseInterfaceBody(body string) *sig.InterfaceDecl {
	decl := &sig.InterfaceDecl{}

	depth := 0
	i := 0
	for i < len(body) {
		c := body[i]
		if c == '{' {
			depth++
			i++
			continue
		}
		if c == '}' {
			depth--
			i++
			continue
		}
		if depth != 0 || !isIdentStart(c) {
			i++
			continue
		}

		member, next := parseJavaMember(body, i, "")
		if member == nil {
			i++
			continue
		}
		switch {
		case member.fn != nil:
			decl.Methods = append(decl.Methods, member.fn)
		case member.fieldName != "":
			decl.Properties = append(decl.Properties, sig.Member{Name: member.fieldName, Type: member.fieldType})
		}
		if next <= i {
			next = i + 1
		}
		i = next
	}
	return decl
}

// parseEnumBody reads the constant list that precedes the first semicolon.
func (e *JavaExtractor) parseEnumBody(body string) *sig.EnumDecl {
	constants := body
	if idx := topLevelIndex(body, ';'); idx >= 0 {
		constants = body[:idx]
	}

	decl := &sig.EnumDecl{}
	for _, seg := range sig.SplitParams(constants) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		name, next := readIdent(seg, 0)
		if name == "" {
			continue
		}
		value := ""
		rest := strings.TrimSpace(seg[next:])
		if strings.HasPrefix(rest, "(") {
			if args, _, ok := balancedSpan(rest, 0, '(', ')'); ok {
				value = sig.NormalizeType(args)
			}
		}
		decl.Members = append(decl.Members, sig.EnumMember{Name: name, Value: value})
	}
	return decl
}

// readJavaType consumes a type token: a dotted identifier with optional
// generic clause and array suffixes.
func readJavaType(src string, i int) (string, int) {
	i = skipSpaces(src, i)
	start := i
	ident, next := readIdent(src, i)
	if ident == "" {
		return "", i
	}
	i = next
	for i < len(src) {
		switch src[i] {
		case '.':
			_, after := readIdent(src, i+1)
			i = after
		case '<':
			_, after, ok := balancedSpan(src, i, '<', '>')
			if !ok {
				return src[start:i], i
			}
			i = after
		case '[':
			if i+1 < len(src) && src[i+1] == ']' {
				i += 2
				continue
			}
			return src[start:i], i
		default:
			return src[start:i], i
		}
	}
	return src[start:i], i
}

func hasWordAt(src string, i int, word string) bool {
	if i+len(word) > len(src) || src[i:i+len(word)] != word {
		return false
	}
	if i > 0 && isIdentByte(src[i-1]) {
		return false
	}
	if i+len(word) < len(src) && isIdentByte(src[i+len(word)]) {
		return false
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
