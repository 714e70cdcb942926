// Package motion detects impacts in a stream of linear acceleration samples.
//
// The classifier is a level trigger with a refractory period: a sample whose
// magnitude exceeds the sensitivity produces one Impact and arms the debounce
// window. Further samples are ignored until Release is called. The caller owns
// the timer; in swing it is a tea.Tick on the same event loop that delivers
// samples, so the classifier needs no locking.
package motion

import "math"

// Sample is one linear acceleration reading in m/s².
type Sample struct {
	X, Y, Z float64
}

// Magnitude returns the Euclidean norm of the sample.
func (s Sample) Magnitude() float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

// Impact is a detected motion spike tagged with the mode active at detection.
type Impact struct {
	Mode      Mode
	Magnitude float64
}

// Path returns the peer message path announcing this impact.
func (i Impact) Path() string {
	return i.Mode.Path()
}

// Classifier holds the mode and debounce state.
type Classifier struct {
	mode       Mode
	debouncing bool
}

// NewClassifier returns a classifier in Light mode, not debouncing.
func NewClassifier() *Classifier {
	return &Classifier{mode: Light}
}

// Detect classifies a sample against the sensitivity threshold.
// It returns an impact only when the magnitude is strictly above the
// threshold and no debounce window is open; in that case the window is
// opened and the caller must schedule exactly one Release.
func (c *Classifier) Detect(s Sample, sensitivity float64) (Impact, bool) {
	if c.debouncing {
		return Impact{}, false
	}
	mag := s.Magnitude()
	if !(mag > sensitivity) {
		return Impact{}, false
	}
	c.debouncing = true
	return Impact{Mode: c.mode, Magnitude: mag}, true
}

// Release closes the debounce window.
func (c *Classifier) Release() {
	c.debouncing = false
}

// Debouncing reports whether a debounce window is open.
func (c *Classifier) Debouncing() bool {
	return c.debouncing
}

// Mode returns the current mode.
func (c *Classifier) Mode() Mode {
	return c.mode
}

// Toggle flips between Light and Heavy and returns the new mode.
func (c *Classifier) Toggle() Mode {
	c.mode = c.mode.Toggle()
	return c.mode
}
