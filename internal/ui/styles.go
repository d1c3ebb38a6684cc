package ui

import "github.com/charmbracelet/lipgloss"

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	quitTextStyle = lipgloss.NewStyle().Margin(1, 0, 2, 2)
)
