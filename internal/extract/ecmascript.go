package extract

import (
	"errors"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"apidrift/internal/sig"
)

// ECMAScriptExtractor covers the JavaScript/TypeScript family with a real
// syntax tree instead of regex scanning. The file extension picks the grammar
// dialect; everything after parsing is shared. Only export statements
// contribute symbols.
type ECMAScriptExtractor struct {
	javascript *sitter.Language
	typescript *sitter.Language
	tsx        *sitter.Language
}

func NewECMAScriptExtractor() *ECMAScriptExtractor {
	return &ECMAScriptExtractor{
		javascript: sitter.NewLanguage(tree_sitter_javascript.Language()),
		typescript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		tsx:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}
}

func (e *ECMAScriptExtractor) Name() string { return "ecmascript" }

func (e *ECMAScriptExtractor) Patterns() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
}

func (e *ECMAScriptExtractor) grammar(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return e.typescript
	case ".tsx":
		return e.tsx
	default:
		return e.javascript
	}
}

func (e *ECMAScriptExtractor) Extract(path string, source string) (*sig.Set, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.grammar(path))

	content := []byte(source)
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	set := sig.NewSet()
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "export_statement" {
			continue
		}
		decl := child.ChildByFieldName("declaration")
		if decl == nil {
			continue
		}
		e.extractDeclaration(decl, content, set)
	}
	return set, nil
}

func (e *ECMAScriptExtractor) extractDeclaration(node *sitter.Node, source []byte, set *sig.Set) {
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		fn := e.extractFunction(node, source)
		if fn != nil {
			set.Put(&sig.Symbol{Key: fn.Name, Name: fn.Name, Kind: sig.KindFunction, Func: fn})
		}
	case "class_declaration", "abstract_class_declaration":
		e.extractClass(node, source, set)
	case "interface_declaration":
		e.extractInterface(node, source, set)
	case "enum_declaration":
		e.extractEnum(node, source, set)
	case "type_alias_declaration":
		name := e.fieldText(node, "name", source)
		value := e.fieldText(node, "value", source)
		if name != "" {
			set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindTypeAlias, Alias: sig.NormalizeType(value)})
		}
	case "lexical_declaration", "variable_declaration":
		e.extractVariables(node, source, set)
	}
}

func (e *ECMAScriptExtractor) extractFunction(node *sitter.Node, source []byte) *sig.Function {
	name := e.fieldText(node, "name", source)
	if name == "" {
		return nil
	}

	fn := &sig.Function{
		Name:       name,
		ReturnType: "void",
		IsAsync:    e.hasKeyword(node, "async"),
		IsStatic:   e.hasKeyword(node, "static"),
	}
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		fn.TypeParams = genericArity(e.text(tp, source))
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = e.extractParams(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = e.annotationType(ret, source)
	}
	return fn
}

func (e *ECMAScriptExtractor) extractParams(node *sitter.Node, source []byte) []sig.Param {
	var params []sig.Param
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		var p sig.Param
		switch child.Kind() {
		case "identifier":
			p.Name = e.text(child, source)
		case "assignment_pattern":
			p.Name = e.fieldText(child, "left", source)
			p.Optional = true
		case "rest_pattern":
			p.Name = e.text(child, source)
			p.Optional = true
		case "object_pattern", "array_pattern":
			p.Name = e.text(child, source)
		case "required_parameter", "optional_parameter":
			pattern := child.ChildByFieldName("pattern")
			if pattern != nil {
				p.Name = e.text(pattern, source)
				if pattern.Kind() == "this" {
					p.Receiver = true
				}
				if pattern.Kind() == "rest_pattern" {
					p.Optional = true
				}
			}
			if t := child.ChildByFieldName("type"); t != nil {
				p.Type = e.annotationType(t, source)
			}
			if child.Kind() == "optional_parameter" || child.ChildByFieldName("value") != nil {
				p.Optional = true
			}
		default:
			continue
		}
		params = append(params, p)
	}
	return params
}

func (e *ECMAScriptExtractor) extractClass(node *sitter.Node, source []byte, set *sig.Set) {
	name := e.fieldText(node, "name", source)
	if name == "" {
		return
	}

	decl := &sig.TypeDecl{Kind: "class"}
	e.extractHeritage(node, source, decl)

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			member := body.Child(i)
			switch member.Kind() {
			case "method_definition", "abstract_method_signature":
				if !e.isPublicMember(member, source) || e.isAccessor(member) {
					continue
				}
				fn := e.extractFunction(member, source)
				if fn == nil {
					continue
				}
				if fn.Name == "constructor" {
					decl.Ctor = fn
				} else {
					decl.Methods = append(decl.Methods, fn)
				}
			case "field_definition", "public_field_definition":
				if !e.isPublicMember(member, source) {
					continue
				}
				fieldName := e.fieldText(member, "name", source)
				if fieldName == "" || strings.HasPrefix(fieldName, "#") {
					continue
				}
				fieldType := ""
				if t := member.ChildByFieldName("type"); t != nil {
					fieldType = e.annotationType(t, source)
				}
				decl.Members = append(decl.Members, sig.Member{Name: fieldName, Type: fieldType})
			}
		}
	}

	set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindType, Type: decl})
}

// extractHeritage collects extends and implements names from the class
// heritage clause. The JS grammar inlines "extends expr"; the TS grammar
// nests extends_clause and implements_clause under class_heritage.
func (e *ECMAScriptExtractor) extractHeritage(node *sitter.Node, source []byte, decl *sig.TypeDecl) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "class_heritage" {
			continue
		}
		text := e.text(child, source)
		text = strings.TrimSpace(text)
		for _, clause := range []string{"extends", "implements"} {
			idx := strings.Index(text, clause)
			if idx < 0 {
				continue
			}
			rest := text[idx+len(clause):]
			if end := strings.Index(rest, "implements"); clause == "extends" && end >= 0 {
				rest = rest[:end]
			}
			for _, base := range sig.SplitParams(rest) {
				base = strings.TrimSpace(base)
				if base != "" {
					decl.Bases = append(decl.Bases, base)
				}
			}
		}
		return
	}
}

func (e *ECMAScriptExtractor) extractInterface(node *sitter.Node, source []byte, set *sig.Set) {
	name := e.fieldText(node, "name", source)
	if name == "" {
		return
	}

	decl := &sig.InterfaceDecl{}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "extends_type_clause" {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(e.text(child, source)), "extends"))
		for _, base := range sig.SplitParams(text) {
			base = strings.TrimSpace(base)
			if base != "" {
				decl.Extends = append(decl.Extends, base)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			member := body.Child(i)
			switch member.Kind() {
			case "method_signature":
				if fn := e.extractFunction(member, source); fn != nil {
					decl.Methods = append(decl.Methods, fn)
				}
			case "property_signature":
				propName := e.fieldText(member, "name", source)
				if propName == "" {
					continue
				}
				propType := ""
				if t := member.ChildByFieldName("type"); t != nil {
					propType = e.annotationType(t, source)
				}
				decl.Properties = append(decl.Properties, sig.Member{Name: propName, Type: propType})
			}
		}
	}

	set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindInterface, Iface: decl})
}

func (e *ECMAScriptExtractor) extractEnum(node *sitter.Node, source []byte, set *sig.Set) {
	name := e.fieldText(node, "name", source)
	if name == "" {
		return
	}

	decl := &sig.EnumDecl{Const: e.hasKeyword(node, "const")}
	body := node.ChildByFieldName("body")
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			member := body.Child(i)
			switch member.Kind() {
			case "enum_assignment":
				decl.Members = append(decl.Members, sig.EnumMember{
					Name:  e.fieldText(member, "name", source),
					Value: strings.TrimSpace(e.fieldText(member, "value", source)),
				})
			case "property_identifier", "string":
				decl.Members = append(decl.Members, sig.EnumMember{Name: strings.Trim(e.text(member, source), `"'`)})
			}
		}
	}

	set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindEnum, Enum: decl})
}

func (e *ECMAScriptExtractor) extractVariables(node *sitter.Node, source []byte, set *sig.Set) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := e.fieldText(child, "name", source)
		if name == "" {
			continue
		}

		v := &sig.VarDecl{}
		if t := child.ChildByFieldName("type"); t != nil {
			v.Type = e.annotationType(t, source)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression", "generator_function", "function":
				fn := &sig.Function{
					Name:       name,
					ReturnType: "void",
					IsAsync:    e.hasKeyword(value, "async"),
				}
				if params := value.ChildByFieldName("parameters"); params != nil {
					fn.Params = e.extractParams(params, source)
				} else if p := value.ChildByFieldName("parameter"); p != nil {
					// single-parameter arrow without parens
					fn.Params = []sig.Param{{Name: e.text(p, source)}}
				}
				if ret := value.ChildByFieldName("return_type"); ret != nil {
					fn.ReturnType = e.annotationType(ret, source)
				}
				v.Func = fn
			}
		}
		set.Put(&sig.Symbol{Key: name, Name: name, Kind: sig.KindVariable, Variable: v})
	}
}

// isPublicMember rejects TS private/protected members and #-private names.
func (e *ECMAScriptExtractor) isPublicMember(node *sitter.Node, source []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "accessibility_modifier" {
			mod := e.text(child, source)
			if mod == "private" || mod == "protected" {
				return false
			}
		}
	}
	if name := node.ChildByFieldName("name"); name != nil {
		if name.Kind() == "private_property_identifier" {
			return false
		}
	}
	return true
}

func (e *ECMAScriptExtractor) isAccessor(node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		switch node.Child(i).Kind() {
		case "get", "set":
			return true
		}
	}
	return false
}

func (e *ECMAScriptExtractor) hasKeyword(node *sitter.Node, keyword string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == keyword {
			return true
		}
	}
	return false
}

// annotationType strips the leading ":" of a type_annotation node.
func (e *ECMAScriptExtractor) annotationType(node *sitter.Node, source []byte) string {
	text := e.text(node, source)
	text = strings.TrimPrefix(strings.TrimSpace(text), ":")
	return sig.NormalizeType(text)
}

func (e *ECMAScriptExtractor) fieldText(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return e.text(child, source)
}

func (e *ECMAScriptExtractor) text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
