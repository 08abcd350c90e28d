package main

import "github.com/charmbracelet/lipgloss"

// Terminal styles for the lesson chat.
var (
	tutorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	stageStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
)
