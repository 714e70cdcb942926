// Package sensor produces linear acceleration samples for the classifier.
// Sources run in their own goroutine and hand every sample to the event
// loop as a SampleMsg.
package sensor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"swing.klederson.com/internal/motion"
)

// Sender accepts messages for the event loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Source is a stream of samples.
type Source interface {
	Start(s Sender) error
	Stop()
}

// SampleMsg carries one reading.
type SampleMsg struct {
	Sample motion.Sample
	At     time.Time
}

// SourceDoneMsg reports that a source ended, with Err set if it failed.
type SourceDoneMsg struct {
	Source string
	Err    error
}
