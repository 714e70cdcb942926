package ui

import "github.com/charmbracelet/lipgloss"

// RenderFacePanel wraps the watch face with a border tinted by the face
// colour. The face itself is drawn by the face package.
func RenderFacePanel(width, height int, face, legend string, tint lipgloss.Color) string {
	content := face + "\n" + legend
	return StylePanelBorder.
		BorderForeground(tint).
		Width(width - 2).
		Height(height - 2).
		Render(content)
}
