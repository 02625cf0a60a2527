package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"apidrift/internal/core/ports"
	"apidrift/internal/findings"
	"apidrift/internal/shared/util"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6")).
				Bold(true)

	breakingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	cleanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// RenderSummary renders a short styled summary for the terminal.
func RenderSummary(run ports.RunRecord, results []findings.Finding, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render("API Drift Report"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s..%s | %d files | %s",
		run.BaseRev, run.HeadRev, run.FilesScanned, elapsed.Round(time.Millisecond))))
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString(cleanStyle.Render("No breaking changes detected."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(breakingStyle.Render(fmt.Sprintf("%d breaking change(s) detected", len(results))))
	b.WriteString("\n\n")

	byFile := make(map[string][]findings.Finding)
	for _, f := range results {
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}
	for _, path := range util.SortedStringKeys(byFile) {
		fmt.Fprintf(&b, "  %s\n", path)
		for _, f := range byFile[path] {
			fmt.Fprintf(&b, "    %s %s\n", breakingStyle.Render("!"), f.Title)
		}
	}

	return b.String()
}
