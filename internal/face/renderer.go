// Package face draws the round watch face: rim, threshold ring, a fill
// that follows the live magnitude, the impact ripple and the peers around
// the rim.
package face

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/motion"
	"swing.klederson.com/internal/peer"
)

const maxLabelLen = 8

// State is everything the face shows for one frame.
type State struct {
	Mode        motion.Mode
	Debouncing  bool
	Magnitude   float64
	Sensitivity float64
	Peers       []peer.Node
	Ripple      *Ripple
}

type palette struct {
	face   lipgloss.Style
	title  lipgloss.Style
	rim    lipgloss.Style
	accent lipgloss.Style
	dim    lipgloss.Style
	peer   lipgloss.Style
	label  lipgloss.Style
}

// Face colours: yellow while debouncing, otherwise black for Light and
// white for Heavy with the title in the opposite colour.
var (
	colorBlack  = lipgloss.Color("#000000")
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorYellow = lipgloss.Color("#FFFF00")
	colorGreen  = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorRed    = lipgloss.Color("#FF3300")
	colorGrey   = lipgloss.Color("#777777")

	paletteLight = newPalette(colorBlack, colorWhite, colorGreen, colorMid)
	paletteHeavy = newPalette(colorWhite, colorBlack, colorMid, colorGrey)
	paletteHit   = newPalette(colorYellow, colorBlack, colorRed, colorGrey)
)

func newPalette(bg, fg, accent, dim lipgloss.Color) palette {
	base := lipgloss.NewStyle().Background(bg)
	return palette{
		face:   base,
		title:  base.Foreground(fg).Bold(true),
		rim:    base.Foreground(fg),
		accent: base.Foreground(accent).Bold(true),
		dim:    base.Foreground(dim),
		peer:   base.Foreground(accent).Bold(true),
		label:  lipgloss.NewStyle().Foreground(accent),
	}
}

// Background returns the face colour for the given state.
func Background(mode motion.Mode, debouncing bool) lipgloss.Color {
	switch {
	case debouncing:
		return colorYellow
	case mode == motion.Heavy:
		return colorWhite
	default:
		return colorBlack
	}
}

func paletteFor(mode motion.Mode, debouncing bool) palette {
	switch {
	case debouncing:
		return paletteHit
	case mode == motion.Heavy:
		return paletteHeavy
	default:
		return paletteLight
	}
}

// Title returns the face title. While debouncing it is spread out, the
// terminal stand-in for the larger font.
func Title(debouncing bool) string {
	if !debouncing {
		return config.AppName
	}
	return strings.Join(strings.Split(config.AppName, ""), " ")
}

type peerPos struct {
	col, row int
	label    string
	labelCol int
	labelRow int
}

type textSpan struct {
	row, col int
	text     string
	style    lipgloss.Style
}

func (t textSpan) at(col, row int) (byte, bool) {
	if row != t.row || col < t.col || col >= t.col+len(t.text) {
		return 0, false
	}
	return t.text[col-t.col], true
}

// Render produces the complete face as a styled string.
func Render(width, height int, st State) string {
	if width < 10 || height < 5 {
		return ""
	}

	pal := paletteFor(st.Mode, st.Debouncing)

	centerX := width / 2
	centerY := height / 2
	radius := float64(min(centerX-1, int(float64(centerY-1)/config.AspectRatio)))
	if radius < 3 {
		radius = 3
	}

	thresholdR := MagnitudeToRadius(st.Sensitivity, config.DialMaxMag, radius)
	fillR := MagnitudeToRadius(st.Magnitude, config.DialMaxMag, radius)

	title := Title(st.Debouncing)
	spans := []textSpan{
		{row: centerY, col: centerX - len(title)/2, text: title, style: pal.title},
	}
	mode := strings.ToUpper(st.Mode.String())
	if centerY+2 < height {
		spans = append(spans, textSpan{row: centerY + 2, col: centerX - len(mode)/2, text: mode, style: pal.dim})
	}

	pps := buildPeerPositions(st.Peers, centerX, centerY, radius, width)

	labelMap := make(map[int]byte)
	for _, pp := range pps {
		for ci := 0; ci < len(pp.label); ci++ {
			labelMap[pp.labelRow*width+pp.labelCol+ci] = pp.label[ci]
		}
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if ch, ok := labelMap[row*width+col]; ok {
				sb.WriteString(pal.label.Render(string(ch)))
				continue
			}
			sb.WriteString(renderCell(col, row, centerX, centerY, radius, thresholdR, fillR, st.Ripple, pps, spans, pal))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// buildPeerPositions spreads peers evenly around the rim and places their
// labels outside it, skipping labels that would overlap.
func buildPeerPositions(peers []peer.Node, centerX, centerY int, radius float64, width int) []peerPos {
	pps := make([]peerPos, 0, len(peers))

	type segment struct{ start, end int }
	occupied := make(map[int][]segment)
	collides := func(row, col, n int) bool {
		for _, seg := range occupied[row] {
			if col < seg.end && col+n > seg.start {
				return true
			}
		}
		return false
	}

	for i, p := range peers {
		angle := 2 * math.Pi * float64(i) / float64(len(peers))
		pc := centerX + int(math.Round(radius*math.Sin(angle)))
		pr := centerY - int(math.Round(radius*math.Cos(angle)*config.AspectRatio))

		label := Callsign(p)

		lc := pc + 2
		if lc+len(label) >= width {
			lc = pc - len(label) - 1
		}
		if lc < 0 {
			lc = 0
		}

		lr := pr
		placed := false
		for _, r := range []int{pr, pr + 1, pr - 1} {
			if !collides(r, lc, len(label)) {
				lr, placed = r, true
				break
			}
		}
		if !placed {
			label = ""
		}

		pps = append(pps, peerPos{col: pc, row: pr, label: label, labelCol: lc, labelRow: lr})
		occupied[pr] = append(occupied[pr], segment{pc, pc + 1})
		if label != "" {
			occupied[lr] = append(occupied[lr], segment{lc, lc + len(label)})
		}
	}

	return pps
}

// Callsign is the short label drawn next to a peer. Long unnamed ids
// (BLE addresses, uuids) become a stable hash.
func Callsign(n peer.Node) string {
	name := n.Name
	if name == "" {
		if len(n.ID) > maxLabelLen {
			h := sha256.Sum256([]byte(n.ID))
			return fmt.Sprintf("#%02X%X", h[0], h[1]&0x0F)
		}
		name = n.ID
	}
	if len(name) > maxLabelLen {
		name = name[:maxLabelLen]
	}
	return name
}

func renderCell(col, row, centerX, centerY int, radius, thresholdR, fillR float64, ripple *Ripple, pps []peerPos, spans []textSpan, pal palette) string {
	for _, pp := range pps {
		if col == pp.col && row == pp.row {
			return pal.peer.Render("@")
		}
	}

	dist := CellDistance(col, row, centerX, centerY)
	if dist > radius+0.5 {
		return " "
	}

	for _, sp := range spans {
		if ch, ok := sp.at(col, row); ok {
			return sp.style.Render(string(ch))
		}
	}

	angle := CellAngle(col, row, centerX, centerY)

	if ripple != nil && ripple.Intensity(dist, radius) > 0.5 {
		return pal.accent.Render("o")
	}

	if math.Abs(dist-radius) < 0.8 {
		if IsTick(angle, config.DialTicks, 0.08) {
			return pal.rim.Bold(true).Render("+")
		}
		return pal.rim.Render(string(RingChar(angle)))
	}

	if thresholdR > 0 && math.Abs(dist-thresholdR) < 0.6 {
		return pal.accent.Render(":")
	}

	if dist <= fillR {
		return pal.dim.Render("~")
	}

	return pal.face.Render(" ")
}

// RenderLegend produces the line under the face.
func RenderLegend(width int) string {
	legend := "   " + lipgloss.NewStyle().Foreground(colorGreen).Render(": threshold") +
		"  " + lipgloss.NewStyle().Foreground(colorMid).Render("~ magnitude") +
		"  " + lipgloss.NewStyle().Foreground(colorGreen).Render("@ peer")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
