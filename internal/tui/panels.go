package tui

import (
	"fmt"
	"strings"
)

// renderContainerListPanel renders the container list panel
func (m Model) renderContainerListPanel(width, height int) string {
	content := m.renderListPanelContent(width, height)
	return panelStyle.
		Width(max(width-4, 1)).
		Height(max(height-4, 1)).
		Render(content)
}

// renderListPanelContent renders the content of the container list panel
func (m Model) renderListPanelContent(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🐳 Containers") + "\n\n")

	if len(m.containers) == 0 {
		if m.updated.IsZero() {
			s.WriteString("Loading...\n")
		} else {
			s.WriteString("Waiting for stats...\n")
		}
		return s.String()
	}

	s.WriteString(fmt.Sprintf("%d containers, updated %s\n\n",
		len(m.containers), m.updated.Format("15:04:05")))

	// Adjusted column widths for the panel
	colWidth := max(width-10, 40)
	cpuWidth := 8
	memWidth := 10
	netWidth := 21
	nameWidth := colWidth - cpuWidth - memWidth - netWidth - 3

	header := fmt.Sprintf("%-*s %*s %*s %*s",
		nameWidth, "NAME",
		cpuWidth, "CPU %",
		memWidth, "MEM",
		netWidth, "NET I/O")
	s.WriteString(headerStyle.Render(header) + "\n")

	// Reserve space for header, help, etc.
	maxContainers := max(height-12, 1)
	start := 0
	if m.cursor >= maxContainers {
		start = m.cursor - maxContainers + 1
	}

	for i := start; i < len(m.containers) && i < start+maxContainers; i++ {
		c := m.containers[i]
		line := fmt.Sprintf("%-*s %*s %*s %*s",
			nameWidth, truncate(c.Name, nameWidth),
			cpuWidth, fmt.Sprintf("%.2f", c.Metrics.CPUPercent),
			memWidth, formatBytes(c.Metrics.MemoryUsage),
			netWidth, formatBytes(c.Metrics.NetworkRx)+" / "+formatBytes(c.Metrics.NetworkTx),
		)

		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> " + line))
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	help := "\n[↑/k] up  [↓/j] down  [g/G] first/last  [R] refresh  [q] quit"
	s.WriteString(helpStyle.Render(help))

	return s.String()
}

// renderStatsPanel renders the stats panel
func (m Model) renderStatsPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📊 Stats") + "\n\n")

	if c, ok := m.Selected(); ok {
		s.WriteString(RenderStats(c))
	} else {
		s.WriteString("No container selected")
	}

	return panelStyle.
		Width(max(width-4, 1)).
		Height(max(height-4, 1)).
		Render(s.String())
}
