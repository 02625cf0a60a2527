package extract

import (
	"testing"

	"apidrift/internal/sig"
)

func extractSwift(t *testing.T, src string) *sig.Set {
	t.Helper()
	set, err := (&SwiftExtractor{}).Extract("App.swift", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return set
}

// Swift overloads on argument labels, so the label sequence is part of the
// symbol identity.
func TestSwiftExtractor_LabelKeys(t *testing.T) {
	set := extractSwift(t, `public func greet(name: String) -> String { return name }

public func move(_ dx: Int, _ dy: Int) { }

public func insert(at index: Int, value: String) { }

public func reset() { }

internal func hidden() { }
`)

	greet := mustGet(t, set, "greet(name:)")
	if greet.Func.ReturnType != "String" {
		t.Errorf("greet return = %q", greet.Func.ReturnType)
	}

	move := mustGet(t, set, "move(_:_:)")
	if len(move.Func.Params) != 2 || move.Func.Params[0].Label != "" {
		t.Errorf("move params = %+v", move.Func.Params)
	}
	if move.Func.ReturnType != "Void" {
		t.Errorf("implicit return = %q", move.Func.ReturnType)
	}

	insert := mustGet(t, set, "insert(at:value:)")
	if insert.Func.Params[0].Name != "index" || insert.Func.Params[0].Label != "at" {
		t.Errorf("insert param 0 = %+v", insert.Func.Params[0])
	}

	// Zero parameters keys on the bare name.
	mustGet(t, set, "reset")

	if _, ok := set.Get("hidden"); ok {
		t.Error("internal function extracted")
	}
}

func TestSwiftExtractor_Types(t *testing.T) {
	set := extractSwift(t, `public final class Session: Connection, Codable {
    public var id: String
    public static let shared: Session

    public init(id: String) {
        self.id = id
    }

    public func send(message: String) -> Bool { return true }
}

public struct Point {
    public var x: Double
    public var y: Double
}
`)

	session := mustGet(t, set, "Session")
	if session.Type.Kind != "class" {
		t.Errorf("kind = %q", session.Type.Kind)
	}
	if len(session.Type.Bases) != 2 {
		t.Errorf("bases = %v", session.Type.Bases)
	}
	if session.Type.Ctor == nil || len(session.Type.Ctor.Params) != 1 {
		t.Fatalf("init = %+v", session.Type.Ctor)
	}
	if session.Type.Method("send(message:)") == nil {
		t.Errorf("send missing: %+v", session.Type.Methods)
	}
	if typ, ok := session.Type.Member("id"); !ok || typ != "String" {
		t.Errorf("id = %q, %v", typ, ok)
	}

	point := mustGet(t, set, "Point")
	if point.Type.Kind != "struct" || len(point.Type.Members) != 2 {
		t.Errorf("Point = %+v", point.Type)
	}
}

func TestSwiftExtractor_EnumAndProtocol(t *testing.T) {
	set := extractSwift(t, `public enum State: String {
    case active = "A"
    case idle
    case failed(Int)
}

public protocol Store: AnyObject {
    var count: Int { get }
    func fetch(key: String) -> String
}
`)

	state := mustGet(t, set, "State")
	if len(state.Enum.Members) != 3 {
		t.Fatalf("members = %+v", state.Enum.Members)
	}
	if m, _ := state.Enum.Member("active"); m.Value != "A" {
		t.Errorf("active = %+v", m)
	}
	if m, _ := state.Enum.Member("failed"); m.Value != "Int" {
		t.Errorf("failed = %+v", m)
	}

	store := mustGet(t, set, "Store")
	if len(store.Iface.Extends) != 1 || store.Iface.Extends[0] != "AnyObject" {
		t.Errorf("extends = %v", store.Iface.Extends)
	}
	if typ, ok := store.Iface.Property("count"); !ok || typ != "Int" {
		t.Errorf("count = %q, %v", typ, ok)
	}
	if store.Iface.Method("fetch(key:)") == nil {
		t.Errorf("fetch missing: %+v", store.Iface.Methods)
	}
}

func TestSwiftExtractor_DefaultsAndInout(t *testing.T) {
	set := extractSwift(t, `public func scale(value: inout Double, by factor: Double = 2.0) { }
`)
	scale := mustGet(t, set, "scale(value:by:)")
	if !scale.Func.Params[0].Mutable {
		t.Error("inout should mark the parameter mutable")
	}
	if !scale.Func.Params[1].Optional {
		t.Error("defaulted parameter should be optional")
	}
	if got := scale.Func.RequiredParams(); got != 1 {
		t.Errorf("required = %d", got)
	}
}

func TestSwiftExtractor_FileLevelVarsAndAliases(t *testing.T) {
	set := extractSwift(t, `public let maxRetries: Int = 3

public typealias Handler = (String) -> Void
`)
	v := mustGet(t, set, "maxRetries")
	if v.Kind != sig.KindVariable || v.Variable.Type != "Int" {
		t.Errorf("maxRetries = %+v", v.Variable)
	}
	alias := mustGet(t, set, "Handler")
	if alias.Alias != "(String) -> Void" {
		t.Errorf("alias = %q", alias.Alias)
	}
}
