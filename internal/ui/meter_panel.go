package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/settings"
)

// MeterInfo feeds the meter panel.
type MeterInfo struct {
	Settings   settings.Settings
	Magnitude  float64
	Peak       float64
	History    []float64
	LastImpact time.Time
	Direction  [2]float64 // x, y of the last sample
}

// RenderMeterPanel shows the live magnitude against the threshold, its
// history, the current settings and the direction of the last sample.
func RenderMeterPanel(info MeterInfo, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("MOTION")
	sep := StyleSeparator.Render(strings.Repeat("-", innerW))
	lines := []string{title, sep}

	vibrate := StyleCheckOff.Render("[ ] off")
	if info.Settings.Vibrate {
		vibrate = StyleCheckOn.Render("[x] on")
	}

	fields := []struct{ label, value string }{
		{"Sensitivity", fmt.Sprintf("%.1f m/s²", info.Settings.Sensitivity)},
		{"Debounce", fmt.Sprintf("%d ms", info.Settings.FrequencyMS)},
		{"Peak", fmt.Sprintf("%.1f m/s²", info.Peak)},
		{"Last hit", formatLastSeen(info.LastImpact)},
	}
	lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-12s", "Vibrate"))+vibrate)
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-12s", f.label))+StyleValue.Render(f.value))
	}
	lines = append(lines, "")

	barWidth := innerW - 18
	if barWidth < 10 {
		barWidth = 10
	}
	bar := renderMagnitudeBar(info.Magnitude, info.Settings.Sensitivity, barWidth)
	lines = append(lines, StyleLabel.Render("  Now ")+bar+StyleValue.Render(fmt.Sprintf(" %5.1f", info.Magnitude)))
	lines = append(lines, "")

	if len(info.History) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleLabel.Render("  History:"))
		spark := renderSparkline(info.History, sparkW)
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(spark))
		lines = append(lines, "")
	}

	compassH := height - len(lines) - 3
	if compassH >= 5 {
		compassW := innerW
		if compassW > compassH*3 {
			compassW = compassH * 3
		}
		compass := RenderCompass(compassW, compassH, info.Direction[0], info.Direction[1], info.Magnitude, info.Settings.Sensitivity)
		pad := strings.Repeat(" ", max(0, (innerW-compassW)/2))
		for _, cl := range strings.Split(compass, "\n") {
			lines = append(lines, pad+cl)
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}

	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderMagnitudeBar fills 0..DialMaxMag and marks the threshold with '|'.
func renderMagnitudeBar(mag, sensitivity float64, width int) string {
	filled := int(math.Round(clamp01(mag/config.DialMaxMag) * float64(width)))
	mark := int(math.Round(clamp01(sensitivity/config.DialMaxMag) * float64(width-1)))

	color := ColorGreen
	if mag > sensitivity {
		color = ColorHit
	}
	fillSty := lipgloss.NewStyle().Foreground(color)
	emptySty := lipgloss.NewStyle().Foreground(ColorDimGreen)
	markSty := lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)

	var sb strings.Builder
	sb.WriteString(StyleHelp.Render("["))
	for i := 0; i < width; i++ {
		switch {
		case i == mark:
			sb.WriteString(markSty.Render("|"))
		case i < filled:
			sb.WriteString(fillSty.Render("="))
		default:
			sb.WriteString(emptySty.Render("-"))
		}
	}
	sb.WriteString(StyleHelp.Render("]"))
	return sb.String()
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}

func formatLastSeen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
