package extract

import (
	"testing"

	"apidrift/internal/sig"
)

func extractPython(t *testing.T, src string) *sig.Set {
	t.Helper()
	set, err := (&PythonExtractor{}).Extract("mod.py", src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return set
}

func TestPythonExtractor_ModuleFunctions(t *testing.T) {
	set := extractPython(t, `def fetch(url, timeout=30):
    return url

async def stream(source: str) -> dict:
    pass
`)

	fetch := mustGet(t, set, "fetch")
	if len(fetch.Func.Params) != 2 {
		t.Fatalf("params = %d", len(fetch.Func.Params))
	}
	if fetch.Func.Params[0].Optional {
		t.Error("url should be required")
	}
	if !fetch.Func.Params[1].Optional {
		t.Error("timeout has a default, should be optional")
	}
	if fetch.Func.ReturnType != "None" {
		t.Errorf("unannotated return = %q, want None", fetch.Func.ReturnType)
	}

	stream := mustGet(t, set, "stream")
	if !stream.Func.IsAsync {
		t.Error("stream should be async")
	}
	if stream.Func.ReturnType != "dict" {
		t.Errorf("stream return = %q", stream.Func.ReturnType)
	}
	if stream.Func.Params[0].Type != "str" {
		t.Errorf("source type = %q", stream.Func.Params[0].Type)
	}
}

func TestPythonExtractor_Classes(t *testing.T) {
	set := extractPython(t, `class Repo(Base):
    def __init__(self, path, bare=False):
        self.path = path

    def commit(self, message: str) -> str:
        return message

    @classmethod
    def clone(cls, url):
        pass

def standalone():
    pass
`)

	repo := mustGet(t, set, "Repo")
	if len(repo.Type.Bases) != 1 || repo.Type.Bases[0] != "Base" {
		t.Errorf("bases = %v", repo.Type.Bases)
	}
	if repo.Type.Ctor == nil {
		t.Fatal("__init__ should become the constructor")
	}
	if got := repo.Type.Ctor.RequiredParams(); got != 1 {
		t.Errorf("ctor required params = %d, want 1 (self excluded, bare optional)", got)
	}

	commit := repo.Type.Method("commit")
	if commit == nil {
		t.Fatal("commit not extracted")
	}
	if !commit.Params[0].Receiver {
		t.Error("self should be marked as receiver")
	}
	if len(commit.ValueParams()) != 1 {
		t.Errorf("value params = %d", len(commit.ValueParams()))
	}

	clone := repo.Type.Method("clone")
	if clone == nil || !clone.Params[0].Receiver {
		t.Error("cls should be marked as receiver")
	}

	// Methods stay inside the class; only standalone is at file level.
	if _, ok := set.Get("commit"); ok {
		t.Error("method leaked to file level")
	}
	mustGet(t, set, "standalone")
}

func TestPythonExtractor_StarArgs(t *testing.T) {
	set := extractPython(t, `def call(target, *args, **kwargs):
    pass
`)
	call := mustGet(t, set, "call")
	if got := call.Func.RequiredParams(); got != 1 {
		t.Errorf("required = %d, want 1", got)
	}
	if !call.Func.Params[1].Optional || !call.Func.Params[2].Optional {
		t.Error("*args and **kwargs should be optional")
	}
}

func TestPythonExtractor_ObjectBaseIgnored(t *testing.T) {
	set := extractPython(t, `class Plain(object):
    pass
`)
	plain := mustGet(t, set, "Plain")
	if len(plain.Type.Bases) != 0 {
		t.Errorf("object base should be dropped, got %v", plain.Type.Bases)
	}
}
