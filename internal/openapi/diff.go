// Package openapi diffs two revisions of an OpenAPI document and reports
// contract-breaking removals and tightenings in the same finding shape the
// source-code pipeline emits.
package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	apperrors "apidrift/internal/core/errors"
	"apidrift/internal/findings"
	"apidrift/internal/shared/util"
)

// Diff parses both revisions of the document at path and returns findings
// for removed paths, removed operations, removed or newly-required
// parameters, and removed or newly-required request body fields.
func Diff(path string, oldData, newData []byte) ([]findings.Finding, error) {
	oldDoc, err := load(oldData)
	if err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeParseError, "parse old openapi revision")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, path)
	}
	newDoc, err := load(newData)
	if err != nil {
		wrapped := apperrors.Wrap(err, apperrors.CodeParseError, "parse new openapi revision")
		return nil, apperrors.AddContext(wrapped, apperrors.CtxPath, path)
	}

	var result []findings.Finding
	oldPaths := pathMap(oldDoc)
	newPaths := pathMap(newDoc)

	for _, p := range util.SortedStringKeys(oldPaths) {
		oldItem := oldPaths[p]
		newItem, ok := newPaths[p]
		if !ok {
			result = append(result, finding(path,
				fmt.Sprintf("API path '%s' was removed", p),
				fmt.Sprintf("The path '%s' no longer exists in the API contract.", p),
				"Restore the path or publish the removal as a new major version."))
			continue
		}
		result = append(result, diffPathItem(path, p, oldItem, newItem)...)
	}

	return result, nil
}

func load(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("spec resolved to nil document")
	}
	return doc, nil
}

func pathMap(doc *openapi3.T) map[string]*openapi3.PathItem {
	if doc.Paths == nil {
		return nil
	}
	return doc.Paths.Map()
}

func diffPathItem(filePath, apiPath string, oldItem, newItem *openapi3.PathItem) []findings.Finding {
	var result []findings.Finding

	oldOps := oldItem.Operations()
	newOps := newItem.Operations()
	for _, method := range util.SortedStringKeys(oldOps) {
		oldOp := oldOps[method]
		newOp, ok := newOps[method]
		if !ok || newOp == nil {
			result = append(result, finding(filePath,
				fmt.Sprintf("Operation '%s %s' was removed", strings.ToUpper(method), apiPath),
				fmt.Sprintf("The operation '%s %s' no longer exists in the API contract.", strings.ToUpper(method), apiPath),
				"Restore the operation or publish the removal as a new major version."))
			continue
		}
		result = append(result, diffOperation(filePath, apiPath, method, oldOp, newOp)...)
	}

	return result
}

func diffOperation(filePath, apiPath, method string, oldOp, newOp *openapi3.Operation) []findings.Finding {
	var result []findings.Finding
	label := fmt.Sprintf("%s %s", strings.ToUpper(method), apiPath)

	newParams := make(map[string]*openapi3.Parameter)
	for _, ref := range newOp.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}
		newParams[ref.Value.In+":"+ref.Value.Name] = ref.Value
	}
	for _, ref := range oldOp.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}
		oldParam := ref.Value
		newParam, ok := newParams[oldParam.In+":"+oldParam.Name]
		if !ok {
			result = append(result, finding(filePath,
				fmt.Sprintf("Parameter '%s' was removed from '%s'", oldParam.Name, label),
				fmt.Sprintf("The %s parameter '%s' no longer exists on '%s'.", oldParam.In, oldParam.Name, label),
				"Keep accepting the parameter or version the API."))
			continue
		}
		if !oldParam.Required && newParam.Required {
			result = append(result, finding(filePath,
				fmt.Sprintf("Parameter '%s' became required on '%s'", oldParam.Name, label),
				fmt.Sprintf("The %s parameter '%s' on '%s' was optional and is now required. Existing clients that omit it will be rejected.", oldParam.In, oldParam.Name, label),
				"Keep the parameter optional with a server-side default."))
		}
	}

	result = append(result, diffRequestBody(filePath, label, oldOp, newOp)...)
	return result
}

func diffRequestBody(filePath, label string, oldOp, newOp *openapi3.Operation) []findings.Finding {
	oldSchema := bodySchema(oldOp)
	newSchema := bodySchema(newOp)
	if oldSchema == nil || newSchema == nil {
		return nil
	}

	var result []findings.Finding
	newRequired := make(map[string]bool, len(newSchema.Required))
	for _, name := range newSchema.Required {
		newRequired[name] = true
	}
	oldRequired := make(map[string]bool, len(oldSchema.Required))
	for _, name := range oldSchema.Required {
		oldRequired[name] = true
	}

	for _, name := range util.SortedStringKeys(oldSchema.Properties) {
		if _, ok := newSchema.Properties[name]; !ok && oldRequired[name] {
			result = append(result, finding(filePath,
				fmt.Sprintf("Required body field '%s' was removed from '%s'", name, label),
				fmt.Sprintf("The required request body field '%s' no longer exists on '%s'.", name, label),
				"Restore the field or version the API."))
		}
	}
	for _, name := range util.SortedStringKeys(newSchema.Properties) {
		if newRequired[name] && !oldRequired[name] {
			if _, existed := oldSchema.Properties[name]; existed {
				result = append(result, finding(filePath,
					fmt.Sprintf("Body field '%s' became required on '%s'", name, label),
					fmt.Sprintf("The request body field '%s' on '%s' was optional and is now required. Existing clients that omit it will be rejected.", name, label),
					"Keep the field optional with a server-side default."))
			}
		}
	}

	return result
}

func bodySchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content.Get("application/json")
	if content == nil || content.Schema == nil {
		return nil
	}
	return content.Schema.Value
}

func finding(filePath, title, description, remediation string) findings.Finding {
	return findings.Finding{
		Type:        findings.TypeBreakingAPI,
		Severity:    findings.SeverityHigh,
		Title:       title,
		Description: description,
		FilePath:    filePath,
		Remediation: remediation,
	}
}
