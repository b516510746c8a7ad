package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light text
	borderColor  = lipgloss.Color("#6B7280") // Gray

	// Status colors
	statusRunningColor    = lipgloss.Color("#10B981") // Green
	statusStoppedColor    = lipgloss.Color("#9CA3AF") // Gray
	statusRestartingColor = lipgloss.Color("#F59E0B") // Amber
	statusErrorColor      = lipgloss.Color("#F87171") // Red

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(lipgloss.Color("#1F2937"))

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(borderColor).
			PaddingRight(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(statusRestartingColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(statusErrorColor)
)

// statusColor maps a process status name to its badge color.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "running":
		return statusRunningColor
	case "restarting":
		return statusRestartingColor
	case "error":
		return statusErrorColor
	default:
		return statusStoppedColor
	}
}
