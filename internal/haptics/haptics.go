// Package haptics gives impact feedback. A watch would pulse its vibration
// motor; on a terminal the closest thing is the bell, and headless runs log
// the pulse instead.
package haptics

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Vibrator fires one feedback pulse of duration d. Implementations must not
// block the caller.
type Vibrator interface {
	Vibrate(d time.Duration)
}

// Bell rings the terminal bell. Pulses closer together than the pulse length
// are merged into one ring.
type Bell struct {
	w   io.Writer
	now func() time.Time

	mu   sync.Mutex
	last time.Time
	busy time.Duration
}

// NewBell writes the bell character to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w, now: time.Now}
}

func (b *Bell) Vibrate(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.busy {
		return
	}
	b.last, b.busy = now, d
	_, _ = b.w.Write([]byte{'\a'})
}

// Log records each pulse at debug level.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Vibrate(d time.Duration) {
	l.logger.Debug("Vibrate", zap.Duration("pulse", d))
}

// Nop discards pulses.
type Nop struct{}

func (Nop) Vibrate(time.Duration) {}
