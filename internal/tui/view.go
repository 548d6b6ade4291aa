package tui

import "github.com/charmbracelet/lipgloss"

// View renders the TUI interface
func (m Model) View() string {
	return m.renderTwoPanelView()
}

// renderTwoPanelView renders the container list next to the detail panel
func (m Model) renderTwoPanelView() string {
	// 60% left, 40% right for columns
	leftWidth := int(float64(m.width) * 0.6)
	rightWidth := m.width - leftWidth

	left := m.renderContainerListPanel(leftWidth, m.height)
	right := m.renderStatsPanel(rightWidth, m.height)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
