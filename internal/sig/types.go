package sig

// Kind discriminates the symbol union. One Symbol carries exactly one of the
// kind-specific payloads below.
type Kind int

const (
	KindFunction Kind = iota
	KindType
	KindInterface
	KindEnum
	KindVariable
	KindTypeAlias
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindVariable:
		return "variable"
	case KindTypeAlias:
		return "type alias"
	default:
		return "symbol"
	}
}

// Symbol is one exported declaration extracted from a single file revision.
type Symbol struct {
	Key  string
	Name string
	Kind Kind

	Func     *Function
	Type     *TypeDecl
	Iface    *InterfaceDecl
	Enum     *EnumDecl
	Variable *VarDecl
	Alias    string
}

// Param is one positional parameter. Name and Label are informational only;
// comparison is positional except where a language folds labels into the
// symbol key (Swift).
type Param struct {
	Name     string
	Label    string
	Type     string
	Optional bool
	Receiver bool
	Mutable  bool
}

type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	IsAsync    bool
	IsStatic   bool
	TypeParams int
}

// RequiredParams counts non-optional, non-receiver parameters.
func (f *Function) RequiredParams() int {
	n := 0
	for _, p := range f.Params {
		if p.Receiver || p.Optional {
			continue
		}
		n++
	}
	return n
}

// ValueParams returns the parameter list with receiver-style parameters
// removed. All count and type comparisons run over this slice.
func (f *Function) ValueParams() []Param {
	out := make([]Param, 0, len(f.Params))
	for _, p := range f.Params {
		if p.Receiver {
			continue
		}
		out = append(out, p)
	}
	return out
}

type Member struct {
	Name string
	Type string
}

type TypeDecl struct {
	Kind    string // "struct" or "class", empty when the language has no split
	Members []Member
	Methods []*Function
	Bases   []string
	Ctor    *Function
}

func (d *TypeDecl) Member(name string) (string, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m.Type, true
		}
	}
	return "", false
}

func (d *TypeDecl) Method(name string) *Function {
	for _, fn := range d.Methods {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

type InterfaceDecl struct {
	Methods    []*Function
	Properties []Member
	Extends    []string
}

func (d *InterfaceDecl) Method(name string) *Function {
	for _, fn := range d.Methods {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func (d *InterfaceDecl) Property(name string) (string, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p.Type, true
		}
	}
	return "", false
}

type EnumMember struct {
	Name  string
	Value string // literal text, empty when implicit
}

type EnumDecl struct {
	Members []EnumMember
	Const   bool
}

func (d *EnumDecl) Member(name string) (EnumMember, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

type VarDecl struct {
	Type string
	Func *Function // set when the initializer is a function literal
}
