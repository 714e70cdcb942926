package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LinkState is the peer transport state shown in the status bar.
type LinkState int

const (
	LinkConnecting LinkState = iota
	LinkOnline
	LinkDown
)

// StatusInfo is what the status bar reports.
type StatusInfo struct {
	Transport string
	Link      LinkState
	Peers     int
	Impacts   int
	Sent      int
	Failed    int
	Notice    string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st StatusInfo) string {
	var status string
	switch st.Link {
	case LinkOnline:
		status = StyleStatusOnline.Render("[" + strings.ToUpper(st.Transport) + "]")
	case LinkDown:
		status = StyleStatusError.Render("[" + strings.ToUpper(st.Transport) + " DOWN]")
	default:
		status = StyleStatusConnecting.Render("[CONNECTING]")
	}

	info := fmt.Sprintf(" Peers: %d  Impacts: %d  Sent: %d  Failed: %d",
		st.Peers, st.Impacts, st.Sent, st.Failed)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)
	if st.Notice != "" {
		content += "  " + StyleStatusError.Render(st.Notice)
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
