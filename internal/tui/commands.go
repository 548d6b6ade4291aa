package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd creates a command that sends a tick message every interval
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshot creates a command that copies the current store contents
func fetchSnapshot(store Snapshotter) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{containers: store.Snapshot(), at: time.Now()}
	}
}
