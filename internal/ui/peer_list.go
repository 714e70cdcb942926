package ui

import (
	"fmt"
	"strings"

	"swing.klederson.com/internal/peer"
)

// RenderPeerList renders the peer panel. The title stays fixed; entries are
// clipped to the available height. lastPath is the last impact path sent.
func RenderPeerList(peers []peer.Node, width, height int, transport, lastPath string) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("PEERS [%d]", len(peers)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	sub := StyleHelp.Render(" via " + transport)
	if lastPath != "" {
		sub += StyleHelp.Render("  last: ") + StyleValue.Render(lastPath)
	}
	headerLines := []string{title, separator, sub}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	space := innerH - len(headerLines)

	var entries []string
	if len(peers) == 0 {
		entries = append(entries, "", StyleHelp.Render(" No peers..."), StyleHelp.Render(" Impacts are not sent"))
	} else {
		for _, p := range peers {
			entries = append(entries, renderPeerEntry(p, innerW)...)
		}
	}

	if len(entries) > space {
		entries = entries[:space]
	}
	for len(entries) < space {
		entries = append(entries, "")
	}

	all := append(headerLines, entries...)
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))

	// lipgloss Height() only sets a minimum; it won't truncate overflow.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func renderPeerEntry(p peer.Node, maxW int) []string {
	name := truncRaw(p.DisplayName(), maxW-4)
	line1 := "  " + StylePeerName.Render("@ "+strings.TrimRight(name, " "))

	lines := []string{line1}
	if p.Name != "" && p.Name != p.ID {
		lines = append(lines, "    "+StylePeerID.Render(strings.TrimRight(truncRaw(p.ID, maxW-4), " ")))
	}
	if !p.LastSeen.IsZero() {
		lines = append(lines, "    "+StylePeerMeta.Render("seen "+formatLastSeen(p.LastSeen)))
	}
	return append(lines, "")
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}
