// Package cliapp hosts the interactive findings browser used in watch mode.
package cliapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apidrift/internal/findings"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	breakingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	findingList list.Model
	results     []findings.Finding
	lastUpdate  time.Time
	lastPath    string
	showDetail  bool
}

type updateMsg struct {
	path    string
	results []findings.Finding
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.showDetail = true
			return m, nil
		case "esc":
			m.showDetail = false
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.findingList.SetSize(msg.Width-h, height)
	case updateMsg:
		m.results = msg.results
		m.lastUpdate = time.Now()
		m.lastPath = msg.path
		m.showDetail = false

		items := make([]list.Item, 0, len(m.results))
		for _, f := range m.results {
			items = append(items, item{
				title: f.Title,
				desc:  f.FilePath,
			})
		}
		m.findingList.SetItems(items)
	}

	var cmd tea.Cmd
	m.findingList, cmd = m.findingList.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %s",
		m.lastUpdate.Format("15:04:05"), m.lastPath))

	var summary string
	if len(m.results) == 0 {
		summary = successStyle.Render("No breaking changes")
	} else {
		summary = breakingStyle.Render(fmt.Sprintf("%d breaking change(s)", len(m.results)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("API Drift Monitor"), status, summary)
	help := statusStyle.Render("Keys: / filter | enter details | esc back | q quit")

	body := m.findingList.View()
	if m.showDetail {
		body += "\n\n" + m.renderDetail()
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func (m model) renderDetail() string {
	idx := m.findingList.Index()
	if idx < 0 || idx >= len(m.results) {
		return statusStyle.Render("No finding selected.")
	}
	f := m.results[idx]

	lines := []string{
		breakingStyle.Render(f.Title),
		fmt.Sprintf("  File: %s", f.FilePath),
		"",
		f.Description,
	}
	if f.Remediation != "" {
		lines = append(lines, "", "Remediation: "+f.Remediation)
	}
	return strings.Join(lines, "\n")
}

func initialModel() model {
	findingList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	findingList.Title = "Breaking Changes"
	findingList.SetShowStatusBar(false)
	findingList.SetFilteringEnabled(true)

	return model{
		findingList: findingList,
		lastUpdate:  time.Now(),
	}
}
