package diff

import "apidrift/internal/sig"

// Kind classifies one structural difference between revisions of a symbol.
type Kind string

const (
	Removed              Kind = "removed"
	ReturnTypeChanged    Kind = "return-type-changed"
	RequiredParamsAdded  Kind = "required-params-added"
	ParamCountChanged    Kind = "param-count-changed"
	ParamTypeChanged     Kind = "param-type-changed"
	ParamBecameRequired  Kind = "param-became-required"
	ModifierChanged      Kind = "modifier-changed"
	TypeArityChanged     Kind = "type-arity-changed"
	MemberRemoved        Kind = "member-removed"
	MemberTypeChanged    Kind = "member-type-changed"
	MemberValueChanged   Kind = "member-value-changed"
	ConstModifierChanged Kind = "const-modifier-changed"
	BaseChanged          Kind = "base-changed"
	NewRequiredMember    Kind = "new-required-member"
	NewMethod            Kind = "new-method"
	CtorParamsChanged    Kind = "ctor-params-changed"
	AliasChanged         Kind = "alias-changed"
)

// Change is one classified delta. Symbol is the key the delta belongs to;
// Detail narrows it further (a member name, a method key, a parameter name)
// when the delta is scoped inside a container. Before and After carry the
// exact old and new text being compared.
type Change struct {
	Kind       Kind
	Symbol     string
	SymbolName string
	SymbolKind sig.Kind
	Detail     string
	Before     string
	After      string
}
