package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/motion"
)

// RenderMenuBar renders the top menu bar with the key hints and current mode.
func RenderMenuBar(width int, mode motion.Mode, debouncing bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"Space", " toggle"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	left := StyleMenuKey.Render(title) + menu
	right := ModeBadge(mode, debouncing) + " "

	// 2 columns of padding
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// ModeBadge shows the mode in the face colours.
func ModeBadge(mode motion.Mode, debouncing bool) string {
	label := strings.ToUpper(mode.String())
	switch {
	case debouncing:
		return StyleModeHit.Render(label)
	case mode == motion.Heavy:
		return StyleModeHeavy.Render(label)
	default:
		return StyleModeLight.Render(label)
	}
}
