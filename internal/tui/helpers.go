package tui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// renderBar draws a fixed width usage bar, CPU may exceed 100%
func renderBar(percent float64, length int) string {
	filled := int(percent / 100 * float64(length))
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("─", length-filled)
}

// formatBytes uses binary units like `docker stats`
func formatBytes(bytes uint64) string {
	const (
		KiB = 1024
		MiB = KiB * 1024
		GiB = MiB * 1024
	)

	switch {
	case bytes >= GiB:
		return fmt.Sprintf("%.2fGiB", float64(bytes)/GiB)
	case bytes >= MiB:
		return fmt.Sprintf("%.2fMiB", float64(bytes)/MiB)
	case bytes >= KiB:
		return fmt.Sprintf("%.2fkB", float64(bytes)/KiB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
