package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender accepts messages for the event loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// DebounceExpiredMsg closes the debounce window opened by an impact.
type DebounceExpiredMsg struct{}

// ToggleMsg flips the impact mode. Sent by key, mouse and SIGUSR1.
type ToggleMsg struct{}

// TransportReadyMsg reports that the peer channel started.
type TransportReadyMsg struct {
	Transport string
}

// TransportFailedMsg reports that the peer channel could not start.
type TransportFailedMsg struct {
	Transport string
	Err       error
}

// SendResultMsg is the outcome of delivering one impact to one peer.
type SendResultMsg struct {
	NodeID string
	Path   string
	Err    error
}
