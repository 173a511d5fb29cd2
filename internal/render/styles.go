package render

import "github.com/charmbracelet/lipgloss"

// Color palette for terminal output.
const (
	ColorPrimary = lipgloss.Color("#7C3AED") // purple
	ColorMuted   = lipgloss.Color("#6B7280") // gray
)

var (
	// TitleStyle is for table titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// MutedStyle is for footnotes such as truncation markers.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
