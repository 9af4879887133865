package main

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#2563eb")
	mutedColor   = lipgloss.Color("#6b7280")
	errorColor   = lipgloss.Color("#dc2626")
	successColor = lipgloss.Color("#16a34a")

	toolbarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(accentColor).
			Padding(0, 1)

	previewBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#111111")).
				Background(lipgloss.Color("#facc15")).
				Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	cursorStyle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	errorStyle      = lipgloss.NewStyle().Foreground(errorColor)
	successStyle    = lipgloss.NewStyle().Foreground(successColor)
	statusStyle     = lipgloss.NewStyle().Foreground(mutedColor)

	selectionColor = "#f59e0b"
	offCanvasColor = "#374151"
)
