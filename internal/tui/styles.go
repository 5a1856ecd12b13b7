package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/logdash/internal/domain"
)

// Colors
var (
	// Level colors
	errorColor = lipgloss.Color("9")  // Red
	warnColor  = lipgloss.Color("11") // Yellow
	infoColor  = lipgloss.Color("10") // Green

	// Pane border colors
	filterNormalColor  = lipgloss.Color("11") // Yellow
	filterEditingColor = lipgloss.Color("10") // Green
	logsColor          = lipgloss.Color("12") // Blue
	statsColor         = lipgloss.Color("13") // Magenta

	dimColor = lipgloss.Color("8")
)

// Styles
var (
	errorLevelStyle = lipgloss.NewStyle().Foreground(errorColor)
	warnLevelStyle  = lipgloss.NewStyle().Foreground(warnColor)
	otherLevelStyle = lipgloss.NewStyle().Foreground(infoColor)

	// Selected log row
	selectedStyle = lipgloss.NewStyle().Reverse(true)

	// Placeholder, row numbers and status text
	dimStyle = lipgloss.NewStyle().Foreground(dimColor).Faint(true)

	// Invalid filter marker
	invalidStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// levelStyle returns the style for a log level
func levelStyle(level string) lipgloss.Style {
	switch level {
	case domain.LevelError:
		return errorLevelStyle
	case domain.LevelWarn:
		return warnLevelStyle
	default:
		return otherLevelStyle
	}
}
