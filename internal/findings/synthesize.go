package findings

import (
	"fmt"

	"apidrift/internal/engine/diff"
)

// Synthesize groups deltas by symbol key and emits one finding per symbol:
// removals get the dedicated title template, everything else becomes a
// signature-changed finding with one bullet per delta. Output order follows
// the delta order, which follows old-set order.
func Synthesize(filePath string, changes []diff.Change) []Finding {
	var out []Finding
	index := make(map[string]int)

	for _, change := range changes {
		if change.Kind == diff.Removed {
			out = append(out, Finding{
				Type:        TypeBreakingAPI,
				Severity:    SeverityHigh,
				Title:       fmt.Sprintf("%s '%s' was removed", change.SymbolKind, change.SymbolName),
				Description: fmt.Sprintf("The %s '%s' is no longer present in %s. Any caller referencing it will break.", change.SymbolKind, change.Symbol, filePath),
				FilePath:    filePath,
				Remediation: fmt.Sprintf("Restore '%s' or provide a deprecation path before deleting it.", change.SymbolName),
				Metadata: map[string]string{
					"symbol": change.Symbol,
					"kind":   string(diff.Removed),
				},
			})
			continue
		}

		pos, ok := index[change.Symbol]
		if !ok {
			index[change.Symbol] = len(out)
			out = append(out, Finding{
				Type:        TypeBreakingAPI,
				Severity:    SeverityHigh,
				Title:       fmt.Sprintf("Signature of %s '%s' changed", change.SymbolKind, change.SymbolName),
				Description: fmt.Sprintf("The %s '%s' changed incompatibly:", change.SymbolKind, change.Symbol),
				FilePath:    filePath,
				Remediation: "Review callers and implementers of this symbol; revert the signature or publish a migration note.",
				Metadata: map[string]string{
					"symbol": change.Symbol,
					"kinds":  string(change.Kind),
				},
			})
			pos = len(out) - 1
		} else {
			out[pos].Metadata["kinds"] += "," + string(change.Kind)
		}
		out[pos].Description += "\n- " + describe(change)
	}
	return out
}

// describe renders one delta as a human-readable bullet.
func describe(c diff.Change) string {
	switch c.Kind {
	case diff.ReturnTypeChanged:
		return scoped(c, fmt.Sprintf("return type changed from '%s' to '%s'", c.Before, c.After))
	case diff.RequiredParamsAdded:
		return scoped(c, fmt.Sprintf("required parameters increased from %s to %s", c.Before, c.After))
	case diff.ParamCountChanged:
		return scoped(c, fmt.Sprintf("Parameter count changed from %s to %s", c.Before, c.After))
	case diff.ParamTypeChanged:
		return fmt.Sprintf("parameter '%s' type changed from '%s' to '%s'", c.Detail, c.Before, c.After)
	case diff.ParamBecameRequired:
		return fmt.Sprintf("parameter '%s' is no longer optional", c.Detail)
	case diff.ModifierChanged:
		return fmt.Sprintf("modifier '%s' changed from %s to %s", c.Detail, c.Before, c.After)
	case diff.TypeArityChanged:
		return scoped(c, fmt.Sprintf("type parameter count changed from %s to %s", c.Before, c.After))
	case diff.MemberRemoved:
		return fmt.Sprintf("member '%s' was removed", c.Detail)
	case diff.MemberTypeChanged:
		if c.Detail == "" {
			return fmt.Sprintf("type changed from '%s' to '%s'", c.Before, c.After)
		}
		return fmt.Sprintf("member '%s' type changed from '%s' to '%s'", c.Detail, c.Before, c.After)
	case diff.MemberValueChanged:
		return fmt.Sprintf("member '%s' value changed from '%s' to '%s'", c.Detail, c.Before, c.After)
	case diff.ConstModifierChanged:
		return fmt.Sprintf("const modifier changed from %s to %s", c.Before, c.After)
	case diff.BaseChanged:
		return fmt.Sprintf("base types changed from '%s' to '%s'", c.Before, c.After)
	case diff.NewRequiredMember:
		return fmt.Sprintf("new required member '%s' breaks existing implementers", c.Detail)
	case diff.NewMethod:
		return fmt.Sprintf("new method '%s' breaks existing implementers", c.Detail)
	case diff.CtorParamsChanged:
		return fmt.Sprintf("constructor parameters changed from %s to %s", c.Before, c.After)
	case diff.AliasChanged:
		return fmt.Sprintf("alias target changed from '%s' to '%s'", c.Before, c.After)
	default:
		return fmt.Sprintf("%s: '%s' -> '%s'", c.Kind, c.Before, c.After)
	}
}

// scoped prefixes a method-level delta with the method key when the delta
// lives inside a container symbol.
func scoped(c diff.Change, text string) string {
	if c.Detail == "" {
		return text
	}
	return fmt.Sprintf("method '%s': %s", c.Detail, text)
}
