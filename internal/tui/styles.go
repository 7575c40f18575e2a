package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // stage labels
	colorSuccess = lipgloss.Color("#00E676") // completed
	colorDanger  = lipgloss.Color("#FF5252") // failures
	colorMuted   = lipgloss.Color("#636363") // de-emphasized
	colorWhite   = lipgloss.Color("#EEEEEE") // primary text
)

var (
	styleStage = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFile = lipgloss.NewStyle().
			Foreground(colorWhite)

	styleRecent = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDone = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleCounter = lipgloss.NewStyle().
			Foreground(colorMuted)
)
