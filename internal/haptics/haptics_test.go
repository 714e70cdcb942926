package haptics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBell_MergesOverlappingPulses(t *testing.T) {
	var buf bytes.Buffer
	now := time.Unix(1000, 0)
	b := NewBell(&buf)
	b.now = func() time.Time { return now }

	b.Vibrate(150 * time.Millisecond)
	now = now.Add(100 * time.Millisecond)
	b.Vibrate(150 * time.Millisecond)
	assert.Equal(t, "\a", buf.String())

	now = now.Add(100 * time.Millisecond)
	b.Vibrate(150 * time.Millisecond)
	assert.Equal(t, "\a\a", buf.String())
}

func TestLog_RecordsPulse(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLog(zap.New(core))

	l.Vibrate(150 * time.Millisecond)

	entries := logs.FilterMessage("Vibrate").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, 150*time.Millisecond, entries[0].ContextMap()["pulse"])
	}
}

func TestNop(t *testing.T) {
	var v Vibrator = Nop{}
	assert.NotPanics(t, func() { v.Vibrate(time.Second) })
}
