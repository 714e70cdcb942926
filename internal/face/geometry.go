package face

import (
	"math"

	"swing.klederson.com/internal/config"
)

// CellDistance computes the distance from a cell to the dial center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell.
// Returns radians in [0, 2π), where 0=12 o'clock, increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// RingChar returns the appropriate character for a ring at the given angle.
func RingChar(angle float64) rune {
	switch int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8 {
	case 0, 4:
		return '-'
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	default:
		return '\\'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// MagnitudeToRadius maps an acceleration onto the dial; the rim is maxMag.
// Negative and NaN magnitudes map to the center.
func MagnitudeToRadius(mag, maxMag, dialRadius float64) float64 {
	if !(mag > 0) {
		return 0
	}
	if mag > maxMag {
		return dialRadius
	}
	return (mag / maxMag) * dialRadius
}

// IsTick reports whether angle falls on one of the n rim marks.
func IsTick(angle float64, n int, tolerance float64) bool {
	step := 2 * math.Pi / float64(n)
	off := math.Mod(NormalizeAngle(angle), step)
	return off < tolerance || step-off < tolerance
}
