package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	successColor = lipgloss.Color("42")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")
	accentColor  = lipgloss.Color("212")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			PaddingLeft(1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			PaddingBottom(1)

	activeStepStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	successStepStyle = lipgloss.NewStyle().
				Foreground(successColor)

	failedStepStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)
