package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for the front panel
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	DisplayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)

	ActiveDisplayStyle = DisplayStyle.
				BorderForeground(lipgloss.Color("#04B575"))

	MatrixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Background(lipgloss.Color("#1A1A1A")).
			Bold(true).
			Padding(0, 1)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	LampOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	LampOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	LogPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// cardStyle colours hearts and diamonds red
func cardStyle(card string) lipgloss.Style {
	if len(card) == 2 && (card[1] == 'H' || card[1] == 'D') {
		return RedCardStyle
	}
	return BlackCardStyle
}
