// Package diff compares two signature sets of the same file and classifies
// every structural difference that can break a caller of the old surface.
package diff

import (
	"fmt"
	"strings"

	"apidrift/internal/sig"
)

// Diff walks oldSet in insertion order and emits zero or more deltas per key.
// A key absent from newSet, or present under a different kind, is Removed and
// terminal; no cross-kind comparison is attempted. Interfaces are the one
// place newSet contributes entries of its own: a member added to an interface
// breaks every existing implementer.
func Diff(oldSet, newSet *sig.Set) []Change {
	var out []Change
	for _, key := range oldSet.Keys() {
		oldSym, _ := oldSet.Get(key)
		newSym, ok := newSet.Get(key)
		if !ok || newSym.Kind != oldSym.Kind {
			out = append(out, Change{
				Kind:       Removed,
				Symbol:     key,
				SymbolName: oldSym.Name,
				SymbolKind: oldSym.Kind,
			})
			continue
		}
		out = append(out, diffSymbol(key, oldSym, newSym)...)
	}
	return out
}

func diffSymbol(key string, oldSym, newSym *sig.Symbol) []Change {
	c := &collector{key: key, name: oldSym.Name, kind: oldSym.Kind}
	switch oldSym.Kind {
	case sig.KindFunction:
		c.compareFunction("", oldSym.Func, newSym.Func)
	case sig.KindType:
		c.compareType(oldSym.Type, newSym.Type)
	case sig.KindInterface:
		c.compareInterface(oldSym.Iface, newSym.Iface)
	case sig.KindEnum:
		c.compareEnum(oldSym.Enum, newSym.Enum)
	case sig.KindVariable:
		c.compareVariable(oldSym.Variable, newSym.Variable)
	case sig.KindTypeAlias:
		if oldSym.Alias != newSym.Alias {
			c.add(AliasChanged, "", oldSym.Alias, newSym.Alias)
		}
	}
	return c.changes
}

// collector accumulates deltas for one symbol key.
type collector struct {
	key     string
	name    string
	kind    sig.Kind
	changes []Change
}

func (c *collector) add(kind Kind, detail, before, after string) {
	c.changes = append(c.changes, Change{
		Kind:       kind,
		Symbol:     c.key,
		SymbolName: c.name,
		SymbolKind: c.kind,
		Detail:     detail,
		Before:     before,
		After:      after,
	})
}

// compareFunction applies the function rules; scope is empty for a free
// function and the method key when recursing inside a container. Receiver
// parameters are stripped before any count or type comparison.
func (c *collector) compareFunction(scope string, oldFn, newFn *sig.Function) {
	if oldFn == nil || newFn == nil {
		return
	}

	if oldFn.ReturnType != newFn.ReturnType {
		c.add(ReturnTypeChanged, scope, oldFn.ReturnType, newFn.ReturnType)
	}

	oldReq, newReq := oldFn.RequiredParams(), newFn.RequiredParams()
	if newReq > oldReq {
		c.add(RequiredParamsAdded, scope, fmt.Sprintf("%d", oldReq), fmt.Sprintf("%d", newReq))
	}

	oldParams, newParams := oldFn.ValueParams(), newFn.ValueParams()
	if len(oldParams) != len(newParams) {
		c.add(ParamCountChanged, scope, fmt.Sprintf("%d", len(oldParams)), fmt.Sprintf("%d", len(newParams)))
	}

	shared := len(oldParams)
	if len(newParams) < shared {
		shared = len(newParams)
	}
	for i := 0; i < shared; i++ {
		if oldParams[i].Type != newParams[i].Type {
			c.add(ParamTypeChanged, paramDetail(scope, oldParams[i], i), oldParams[i].Type, newParams[i].Type)
		}
		if oldParams[i].Optional && !newParams[i].Optional {
			c.add(ParamBecameRequired, paramDetail(scope, oldParams[i], i), "optional", "required")
		}
	}

	if oldFn.IsAsync != newFn.IsAsync {
		c.add(ModifierChanged, scopeDetail(scope, "async"), fmt.Sprintf("%t", oldFn.IsAsync), fmt.Sprintf("%t", newFn.IsAsync))
	}
	if oldFn.IsStatic != newFn.IsStatic {
		c.add(ModifierChanged, scopeDetail(scope, "static"), fmt.Sprintf("%t", oldFn.IsStatic), fmt.Sprintf("%t", newFn.IsStatic))
	}
	if oldFn.TypeParams != newFn.TypeParams {
		c.add(TypeArityChanged, scope, fmt.Sprintf("%d", oldFn.TypeParams), fmt.Sprintf("%d", newFn.TypeParams))
	}
}

func paramDetail(scope string, p sig.Param, index int) string {
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("#%d", index)
	}
	return scopeDetail(scope, name)
}

func scopeDetail(scope, detail string) string {
	if scope == "" {
		return detail
	}
	return scope + "." + detail
}

func (c *collector) compareType(oldDecl, newDecl *sig.TypeDecl) {
	if oldDecl == nil || newDecl == nil {
		return
	}

	for _, m := range oldDecl.Members {
		newType, ok := newDecl.Member(m.Name)
		if !ok {
			c.add(MemberRemoved, m.Name, m.Type, "")
			continue
		}
		if m.Type != newType {
			c.add(MemberTypeChanged, m.Name, m.Type, newType)
		}
	}

	for _, fn := range oldDecl.Methods {
		newFn := newDecl.Method(fn.Name)
		if newFn == nil {
			c.add(MemberRemoved, fn.Name, formatSignature(fn), "")
			continue
		}
		c.compareFunction(fn.Name, fn, newFn)
	}

	if oldDecl.Ctor != nil && newDecl.Ctor != nil {
		oldCtor := formatParams(oldDecl.Ctor)
		newCtor := formatParams(newDecl.Ctor)
		if oldCtor != newCtor {
			c.add(CtorParamsChanged, "", oldCtor, newCtor)
		}
	}

	oldBases := strings.Join(oldDecl.Bases, ", ")
	newBases := strings.Join(newDecl.Bases, ", ")
	if oldBases != newBases {
		c.add(BaseChanged, "", oldBases, newBases)
	}
}

func (c *collector) compareInterface(oldDecl, newDecl *sig.InterfaceDecl) {
	if oldDecl == nil || newDecl == nil {
		return
	}

	for _, p := range oldDecl.Properties {
		newType, ok := newDecl.Property(p.Name)
		if !ok {
			c.add(MemberRemoved, p.Name, p.Type, "")
			continue
		}
		if p.Type != newType {
			c.add(MemberTypeChanged, p.Name, p.Type, newType)
		}
	}
	for _, fn := range oldDecl.Methods {
		newFn := newDecl.Method(fn.Name)
		if newFn == nil {
			c.add(MemberRemoved, fn.Name, formatSignature(fn), "")
			continue
		}
		c.compareFunction(fn.Name, fn, newFn)
	}

	// Additions break implementers, so the new side is consulted here and
	// nowhere else.
	for _, p := range newDecl.Properties {
		if _, ok := oldDecl.Property(p.Name); !ok {
			c.add(NewRequiredMember, p.Name, "", p.Type)
		}
	}
	for _, fn := range newDecl.Methods {
		if oldDecl.Method(fn.Name) == nil {
			c.add(NewMethod, fn.Name, "", formatSignature(fn))
		}
	}

	oldBases := strings.Join(oldDecl.Extends, ", ")
	newBases := strings.Join(newDecl.Extends, ", ")
	if oldBases != newBases {
		c.add(BaseChanged, "", oldBases, newBases)
	}
}

func (c *collector) compareEnum(oldDecl, newDecl *sig.EnumDecl) {
	if oldDecl == nil || newDecl == nil {
		return
	}
	for _, m := range oldDecl.Members {
		newMember, ok := newDecl.Member(m.Name)
		if !ok {
			c.add(MemberRemoved, m.Name, m.Value, "")
			continue
		}
		if m.Value != newMember.Value {
			c.add(MemberValueChanged, m.Name, m.Value, newMember.Value)
		}
	}
	if oldDecl.Const != newDecl.Const {
		c.add(ConstModifierChanged, "", fmt.Sprintf("%t", oldDecl.Const), fmt.Sprintf("%t", newDecl.Const))
	}
}

func (c *collector) compareVariable(oldVar, newVar *sig.VarDecl) {
	if oldVar == nil || newVar == nil {
		return
	}
	if oldVar.Func != nil && newVar.Func != nil {
		c.compareFunction("", oldVar.Func, newVar.Func)
		return
	}
	if oldVar.Type != newVar.Type {
		c.add(MemberTypeChanged, "", oldVar.Type, newVar.Type)
	}
}

// formatSignature renders a compact human-readable signature for delta text.
func formatSignature(fn *sig.Function) string {
	s := fn.Name + formatParams(fn)
	if fn.ReturnType != "" {
		s += " -> " + fn.ReturnType
	}
	return s
}

func formatParams(fn *sig.Function) string {
	parts := make([]string, 0, len(fn.Params))
	for _, p := range fn.ValueParams() {
		part := p.Name
		if p.Type != "" {
			if part != "" {
				part += ": "
			}
			part += p.Type
		}
		if p.Optional {
			part += "?"
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
