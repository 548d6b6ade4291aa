package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.selected = m.containers[m.cursor].Name
			}

		case "down", "j":
			if m.cursor < len(m.containers)-1 {
				m.cursor++
				m.selected = m.containers[m.cursor].Name
			}

		case "home", "g":
			if len(m.containers) > 0 {
				m.cursor = 0
				m.selected = m.containers[0].Name
			}

		case "end", "G":
			if len(m.containers) > 0 {
				m.cursor = len(m.containers) - 1
				m.selected = m.containers[m.cursor].Name
			}

		case "R":
			return m, fetchSnapshot(m.store)
		}

	case tickMsg:
		return m, tea.Batch(fetchSnapshot(m.store), tickCmd(m.refresh))

	case snapshotMsg:
		m.containers = msg.containers
		m.updated = msg.at
		m.cursor = m.cursorFor(m.selected)
		if len(m.containers) > 0 {
			m.selected = m.containers[m.cursor].Name
		}
	}

	return m, nil
}

// cursorFor finds name in the current list, clamping when it is gone
func (m Model) cursorFor(name string) int {
	for i, c := range m.containers {
		if c.Name == name {
			return i
		}
	}
	if m.cursor >= len(m.containers) {
		return max(len(m.containers)-1, 0)
	}
	return m.cursor
}
