package main

import "github.com/charmbracelet/lipgloss"

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	restoredStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	pendingStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(mutedGray)
)
