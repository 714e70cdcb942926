package face

import (
	"time"

	"swing.klederson.com/internal/config"
)

// Ripple is the ring that grows from the center to the rim after an impact.
// It lasts for the debounce window.
type Ripple struct {
	start    time.Time
	duration time.Duration
	progress float64
	active   bool
	now      func() time.Time
}

func NewRipple() *Ripple {
	return &Ripple{now: time.Now}
}

// Start restarts the ripple. Windows shorter than RippleMinDur are stretched
// so a zero or negative debounce still shows a flash.
func (r *Ripple) Start(d time.Duration) {
	if d < config.RippleMinDur {
		d = config.RippleMinDur
	}
	r.start = r.now()
	r.duration = d
	r.progress = 0
	r.active = true
}

// Update advances the ripple based on elapsed time.
func (r *Ripple) Update() {
	if !r.active {
		return
	}
	p := float64(r.now().Sub(r.start)) / float64(r.duration)
	if p >= 1 {
		r.active = false
		r.progress = 1
		return
	}
	r.progress = p
}

func (r *Ripple) Active() bool {
	return r.active
}

// Progress returns how far the ring has travelled, 0 at the center and 1 at
// the rim.
func (r *Ripple) Progress() float64 {
	return r.progress
}

// Intensity returns the glow [0, 1] for a cell at dist from the center.
// The front of the ring is brightest, fading over the trailing 30% of the
// radius.
func (r *Ripple) Intensity(dist, radius float64) float64 {
	if !r.active || radius <= 0 {
		return 0
	}
	front := r.progress * radius
	behind := front - dist
	trail := 0.3 * radius
	if behind < -0.5 || behind > trail {
		return 0
	}
	if behind < 0 {
		return 1
	}
	return 1 - behind/trail
}
