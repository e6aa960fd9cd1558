package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	fadedStyle    = lipgloss.NewStyle().Faint(true)
	claimButton   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// highlight paints a row background, e.g. the claim tint.
func highlight(bg string) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color("0"))
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
