package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// RenderStats renders the statistics for a container
func RenderStats(c model.ContainerMetrics) string {
	stats := c.Metrics
	memPercent := stats.MemoryPercent()

	barLength := 30

	// CPU box
	cpuStr := fmt.Sprintf("%6.2f%% |%s|", stats.CPUPercent, renderBar(stats.CPUPercent, barLength))
	cpuBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#89B4FA")).
		Padding(0, 1).
		Render("CPU\n" + colorize(stats.CPUPercent, cpuStr))

	// Memory box
	memStr := fmt.Sprintf("%s / %s (%.2f%%) |%s|",
		formatBytes(stats.MemoryUsage), formatBytes(stats.MemoryLimit),
		memPercent, renderBar(memPercent, barLength))
	memBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#A6E3A1")).
		Padding(0, 1).
		Render("MEM\n" + colorize(memPercent, memStr))

	// Network
	netStr := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89B4FA")).
		Render(fmt.Sprintf("Network: Rx: %s | Tx: %s",
			formatBytes(stats.NetworkRx), formatBytes(stats.NetworkTx)))

	// Disk I/O
	blockStr := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CBA6F7")).
		Render(fmt.Sprintf("Disk I/O: Read: %s | Write: %s",
			formatBytes(stats.BlockRead), formatBytes(stats.BlockWrite)))

	// Container title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F5C2E7")).
		Render("Container: " + c.Name)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		cpuBox,
		memBox,
		netStr,
		blockStr,
	)
}

func colorize(percent float64, text string) string {
	var color string
	switch {
	case percent > 80:
		color = "#F38BA8" // red/pink
	case percent > 50:
		color = "#FAB387" // orange
	default:
		color = "#A6E3A1" // green
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}
