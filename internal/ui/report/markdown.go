package report

import (
	"fmt"
	"strings"
	"time"

	"apidrift/internal/core/ports"
	"apidrift/internal/findings"
	"apidrift/internal/shared/util"
)

// RenderMarkdown produces a human-readable report of one comparison run.
func RenderMarkdown(run ports.RunRecord, results []findings.Finding) string {
	var b strings.Builder

	b.WriteString("# Breaking API Changes\n\n")
	if run.BaseRev != "" || run.HeadRev != "" {
		fmt.Fprintf(&b, "Comparing `%s` against `%s`.\n\n", run.BaseRev, run.HeadRev)
	}
	if !run.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Run started %s.\n\n", run.StartedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Files scanned: %d. Findings: %d.\n\n", run.FilesScanned, len(results))

	if len(results) == 0 {
		b.WriteString("No breaking changes detected.\n")
		return b.String()
	}

	byFile := make(map[string][]findings.Finding)
	for _, f := range results {
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}

	for _, path := range util.SortedStringKeys(byFile) {
		fmt.Fprintf(&b, "## %s\n\n", path)
		for _, f := range byFile[path] {
			fmt.Fprintf(&b, "### %s\n\n", f.Title)
			fmt.Fprintf(&b, "%s\n\n", f.Description)
			if f.Remediation != "" {
				fmt.Fprintf(&b, "**Remediation:** %s\n\n", f.Remediation)
			}
		}
	}

	return b.String()
}

// WriteMarkdownFile writes the Markdown rendering to path, creating parent
// directories as needed.
func WriteMarkdownFile(path string, run ports.RunRecord, results []findings.Finding) error {
	return util.WriteStringWithDirs(path, RenderMarkdown(run, results), 0o644)
}
