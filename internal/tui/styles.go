package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/staticreview/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// File list
	fileListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fileItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	fileItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	fileItemCleanStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Content view
	contentViewStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(4).
			Align(lipgloss.Right)

	addedLineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	deletedLineStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	// Issue annotations
	issueErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	issueWarningStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	issueInfoStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// LevelStyle returns the style issues of level are drawn in.
func LevelStyle(level model.Level) lipgloss.Style {
	switch level {
	case model.LevelError:
		return issueErrorStyle
	case model.LevelWarning:
		return issueWarningStyle
	default:
		return issueInfoStyle
	}
}

// LevelIcon returns a short marker for level.
func LevelIcon(level model.Level) string {
	switch level {
	case model.LevelError:
		return "✖"
	case model.LevelWarning:
		return "▲"
	default:
		return "●"
	}
}
