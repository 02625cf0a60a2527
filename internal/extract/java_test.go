package extract

import (
	"testing"

	"apidrift/internal/sig"
)

func extractJava(t *testing.T, src string) *sig.Set {
	t.Helper()
	set, err := (&JavaExtractor{}).Extract("Main.java", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return set
}

func TestJavaExtractor_Class(t *testing.T) {
	set := extractJava(t, `package app;

public class Account extends Entity implements Auditable {
    public static final String VERSION = "1";
    private long id;

    public Account(String owner, long balance) {
        this.id = 0;
    }

    public long getBalance() {
        return 0;
    }

    public void transfer(Account target, long amount) { }

    private void audit() { }
}
`)

	account := mustGet(t, set, "Account")
	if account.Kind != sig.KindType {
		t.Fatalf("kind = %v", account.Kind)
	}
	if len(account.Type.Bases) != 2 {
		t.Fatalf("bases = %v", account.Type.Bases)
	}

	if account.Type.Ctor == nil {
		t.Fatal("constructor not found")
	}
	if len(account.Type.Ctor.Params) != 2 {
		t.Errorf("ctor params = %d", len(account.Type.Ctor.Params))
	}
	if account.Type.Ctor.Params[0].Type != "String" {
		t.Errorf("ctor param type = %q", account.Type.Ctor.Params[0].Type)
	}

	get := account.Type.Method("getBalance")
	if get == nil || get.ReturnType != "long" {
		t.Fatalf("getBalance = %+v", get)
	}
	if account.Type.Method("audit") != nil {
		t.Error("private method extracted")
	}
	if account.Type.Method("transfer") == nil {
		t.Error("transfer missing")
	}

	if typ, ok := account.Type.Member("VERSION"); !ok || typ != "String" {
		t.Errorf("VERSION = %q, %v", typ, ok)
	}
	if _, ok := account.Type.Member("id"); ok {
		t.Error("private field extracted")
	}
}

func TestJavaExtractor_Interface(t *testing.T) {
	set := extractJava(t, `public interface Repository extends AutoCloseable {
    Entity find(String id);
    void save(Entity e, boolean flush);
    int MAX_BATCH = 100;
}
`)

	repo := mustGet(t, set, "Repository")
	if len(repo.Iface.Extends) != 1 || repo.Iface.Extends[0] != "AutoCloseable" {
		t.Errorf("extends = %v", repo.Iface.Extends)
	}
	find := repo.Iface.Method("find")
	if find == nil || find.ReturnType != "Entity" {
		t.Fatalf("find = %+v", find)
	}
	save := repo.Iface.Method("save")
	if save == nil || len(save.Params) != 2 {
		t.Fatalf("save = %+v", save)
	}
	if save.Params[1].Type != "boolean" || save.Params[1].Name != "flush" {
		t.Errorf("save param = %+v", save.Params[1])
	}
	if typ, ok := repo.Iface.Property("MAX_BATCH"); !ok || typ != "int" {
		t.Errorf("MAX_BATCH = %q, %v", typ, ok)
	}
}

func TestJavaExtractor_Enum(t *testing.T) {
	set := extractJava(t, `public enum Status {
    ACTIVE("a"), SUSPENDED("s"), CLOSED;

    private final String code;

    Status(String code) { this.code = code; }
    Status() { this(""); }
}
`)

	status := mustGet(t, set, "Status")
	if len(status.Enum.Members) != 3 {
		t.Fatalf("members = %+v", status.Enum.Members)
	}
	if m, ok := status.Enum.Member("ACTIVE"); !ok || m.Value == "" {
		t.Errorf("ACTIVE = %+v", m)
	}
	if m, ok := status.Enum.Member("CLOSED"); !ok || m.Value != "" {
		t.Errorf("CLOSED = %+v", m)
	}
}

func TestJavaExtractor_GenericMethod(t *testing.T) {
	set := extractJava(t, `public class Box {
    public <T, R> R map(T input, java.util.function.Function<T, R> fn) {
        return fn.apply(input);
    }
}
`)
	box := mustGet(t, set, "Box")
	m := box.Type.Method("map")
	if m == nil {
		t.Fatal("map missing")
	}
	if m.TypeParams != 2 {
		t.Errorf("type params = %d, want 2", m.TypeParams)
	}
	if len(m.Params) != 2 {
		t.Fatalf("params = %+v", m.Params)
	}
	if m.Params[1].Type != "java.util.function.Function<T, R>" {
		t.Errorf("fn type = %q", m.Params[1].Type)
	}
}
