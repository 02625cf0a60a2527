package openapi

import (
	"strings"
	"testing"
)

const baseSpec = `
openapi: 3.0.0
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: list_pets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: ok
    post:
      operationId: create_pet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                tag:
                  type: string
      responses:
        "201":
          description: created
  /owners:
    get:
      operationId: list_owners
      responses:
        "200":
          description: ok
`

func titles(t *testing.T, oldSpec, newSpec string) []string {
	t.Helper()
	got, err := Diff("openapi.yaml", []byte(oldSpec), []byte(newSpec))
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(got))
	for i, f := range got {
		out[i] = f.Title
	}
	return out
}

func TestDiff_NoChanges(t *testing.T) {
	if got := titles(t, baseSpec, baseSpec); len(got) != 0 {
		t.Fatalf("expected no findings, got %v", got)
	}
}

func TestDiff_RemovedPath(t *testing.T) {
	newSpec := strings.Replace(baseSpec, `  /owners:
    get:
      operationId: list_owners
      responses:
        "200":
          description: ok
`, "", 1)

	got := titles(t, baseSpec, newSpec)
	if len(got) != 1 || !strings.Contains(got[0], "path '/owners' was removed") {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestDiff_RemovedOperation(t *testing.T) {
	newSpec := strings.Replace(baseSpec, `    get:
      operationId: list_pets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: ok
`, "", 1)

	got := titles(t, baseSpec, newSpec)
	if len(got) != 1 || !strings.Contains(got[0], "'GET /pets' was removed") {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestDiff_ParameterRemovedAndRequired(t *testing.T) {
	removed := strings.Replace(baseSpec, `      parameters:
        - name: limit
          in: query
          schema:
            type: integer
`, "", 1)
	got := titles(t, baseSpec, removed)
	if len(got) != 1 || !strings.Contains(got[0], "Parameter 'limit' was removed") {
		t.Fatalf("unexpected findings: %v", got)
	}

	required := strings.Replace(baseSpec, `        - name: limit
          in: query
`, `        - name: limit
          in: query
          required: true
`, 1)
	got = titles(t, baseSpec, required)
	if len(got) != 1 || !strings.Contains(got[0], "became required") {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestDiff_BodyFieldBecameRequired(t *testing.T) {
	newSpec := strings.Replace(baseSpec, "required: [name]", "required: [name, tag]", 1)

	got := titles(t, baseSpec, newSpec)
	if len(got) != 1 || !strings.Contains(got[0], "Body field 'tag' became required") {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestDiff_RequiredBodyFieldRemoved(t *testing.T) {
	newSpec := strings.Replace(baseSpec, `              properties:
                name:
                  type: string
                tag:
                  type: string
`, `              properties:
                tag:
                  type: string
`, 1)

	got := titles(t, baseSpec, newSpec)
	found := false
	for _, title := range got {
		if strings.Contains(title, "Required body field 'name' was removed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected removed-field finding, got %v", got)
	}
}

func TestDiff_ParseError(t *testing.T) {
	if _, err := Diff("openapi.yaml", []byte("{not yaml: ["), []byte(baseSpec)); err == nil {
		t.Fatal("expected parse error")
	}
}
