package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"swing.klederson.com/internal/config"
)

// RenderCompass draws an arrow in the direction of the last sample's x/y
// acceleration, as seen looking at the watch face. Arrow length follows the
// magnitude; the arrow turns yellow above the threshold.
func RenderCompass(width, height int, x, y, mag, sensitivity float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		isArrow[i] = make([]bool, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := math.Max(fcx-2.0, 3)
	ry := math.Max(fcy-2.0, 2)

	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = ringChar(a)
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	// axis markers: +Y is 12 o'clock
	setGrid(grid, width, height, cx, cy-int(math.Round(ry))-1, 'Y')
	setGrid(grid, width, height, cx+int(math.Round(rx))+1, cy, 'X')
	setGrid(grid, width, height, cx, cy, '+')

	if x != 0 || y != 0 {
		angle := math.Atan2(x, y)
		frac := 0.3 + 0.55*clamp01(mag/config.DialMaxMag)
		drawArrow(grid, isArrow, width, height, fcx, fcy, rx, ry, angle, frac)
	}

	arrowColor := ColorGreen
	if mag > sensitivity {
		arrowColor = ColorHit
	}
	arrowSty := lipgloss.NewStyle().Foreground(arrowColor).Bold(true)
	ringSty := lipgloss.NewStyle().Foreground(ColorDimGreen)
	markSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case ch == 'X' || ch == 'Y' || ch == '+':
				sb.WriteString(markSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func drawArrow(grid [][]byte, isArrow [][]bool, width, height int, fcx, fcy, rx, ry, angle, frac float64) {
	sinA := math.Sin(angle)
	cosA := math.Cos(angle)

	shaftSteps := int(math.Max(rx, ry) * frac)
	if shaftSteps < 2 {
		shaftSteps = 2
	}

	tipCol, tipRow := -1, -1
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * frac
		col := int(math.Round(fcx + t*rx*sinA))
		row := int(math.Round(fcy - t*ry*cosA))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = shaftChar(angle)
			isArrow[row][col] = true
			tipCol, tipRow = col, row
		}
	}

	if tipCol >= 0 {
		grid[tipRow][tipCol] = arrowTip(angle)
	}
}

func setGrid(grid [][]byte, w, h, col, row int, ch byte) {
	if col >= 0 && col < w && row >= 0 && row < h {
		grid[row][col] = ch
	}
}

func sector(a float64) int {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return int(math.Round(a/(math.Pi/4))) % 8
}

func ringChar(a float64) byte {
	switch sector(a) {
	case 1, 5:
		return '\\'
	case 2, 6:
		return '|'
	case 3, 7:
		return '/'
	default:
		return '-'
	}
}

// shaftChar returns the line character for a given angle direction.
func shaftChar(a float64) byte {
	switch sector(a) {
	case 2, 6:
		return '-'
	case 1, 5:
		return '/'
	case 3, 7:
		return '\\'
	default:
		return '|'
	}
}

// arrowTip returns the arrowhead character for a given angle.
func arrowTip(a float64) byte {
	return "^/>\\v/<\\"[sector(a)]
}
