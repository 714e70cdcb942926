package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/motion"
)

// MockSource synthesises a wrist-worn accelerometer for demo mode: low
// noise at rest with a swing every few seconds whose peak lands between
// 30 and 60 m/s², above the default sensitivity.
type MockSource struct {
	interval time.Duration
	rng      *rand.Rand
	cancel   context.CancelFunc

	// swing state
	nextSwing time.Duration
	swingLeft time.Duration
	swingLen  time.Duration
	peak      float64
	axis      [3]float64
}

// NewMockSource creates a demo source.
func NewMockSource() *MockSource {
	return newMockSource(rand.New(rand.NewSource(time.Now().UnixNano())), config.MockSampleInterval)
}

func newMockSource(rng *rand.Rand, interval time.Duration) *MockSource {
	m := &MockSource{interval: interval, rng: rng}
	m.scheduleSwing()
	return m
}

// Start begins emitting samples.
func (m *MockSource) Start(s Sender) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.loop(ctx, s)
	return nil
}

func (m *MockSource) loop(ctx context.Context, s Sender) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Send(SampleMsg{Sample: m.next(), At: t})
		}
	}
}

// next advances the simulation by one interval.
func (m *MockSource) next() motion.Sample {
	noise := func() float64 { return (m.rng.Float64() - 0.5) * 1.5 }
	sample := motion.Sample{X: noise(), Y: noise(), Z: noise()}

	if m.swingLeft > 0 {
		// half-sine envelope over the swing
		progress := 1 - float64(m.swingLeft)/float64(m.swingLen)
		amp := m.peak * math.Sin(progress*math.Pi)
		sample.X += amp * m.axis[0]
		sample.Y += amp * m.axis[1]
		sample.Z += amp * m.axis[2]

		m.swingLeft -= m.interval
		if m.swingLeft <= 0 {
			m.scheduleSwing()
		}
		return sample
	}

	m.nextSwing -= m.interval
	if m.nextSwing <= 0 {
		m.startSwing()
	}
	return sample
}

func (m *MockSource) scheduleSwing() {
	m.nextSwing = time.Duration(1500+m.rng.Intn(2500)) * time.Millisecond
	m.swingLeft = 0
}

func (m *MockSource) startSwing() {
	m.swingLen = time.Duration(200+m.rng.Intn(200)) * time.Millisecond
	m.swingLeft = m.swingLen
	m.peak = 30 + m.rng.Float64()*30

	x, y, z := m.rng.NormFloat64(), m.rng.NormFloat64(), m.rng.NormFloat64()
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 {
		x, n = 1, 1
	}
	m.axis = [3]float64{x / n, y / n, z / n}
}

// Stop halts the source.
func (m *MockSource) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}
