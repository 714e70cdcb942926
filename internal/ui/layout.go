package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the face panel and the side column horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, facePanel, side, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, facePanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// Stack joins side panels vertically.
func Stack(panels ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}
