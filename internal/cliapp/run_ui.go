package cliapp

import (
	tea "github.com/charmbracelet/bubbletea"

	"apidrift/internal/core/ports"
)

// RunUI starts the findings browser and connects it to watch updates. It
// blocks until the user quits.
func RunUI(watch ports.WatchService) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	watch.Subscribe(func(update ports.WatchUpdate) {
		p.Send(updateMsg{
			path:    update.Path,
			results: update.Findings,
		})
	})

	_, err := p.Run()
	return err
}
