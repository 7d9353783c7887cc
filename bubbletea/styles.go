package bubbletea

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorError  = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	sourceStyle   = lipgloss.NewStyle().Foreground(colorDim)
	answerStyle   = lipgloss.NewStyle().PaddingLeft(2)
)
