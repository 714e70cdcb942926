// Package peer carries impact notifications to paired devices and brings
// settings updates back. Transports turn everything they receive into tea
// messages so the app's Update loop stays the only place state changes.
package peer

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrUnknownNode is returned by Send for a node the transport never saw.
var ErrUnknownNode = errors.New("unknown peer node")

// Sender accepts messages for the event loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Node is a reachable peer device.
type Node struct {
	ID       string
	Name     string
	LastSeen time.Time
}

// DisplayName returns the node name or its id if unnamed.
func (n Node) DisplayName() string {
	if n.Name == "" {
		return n.ID
	}
	return n.Name
}

// Channel is a message transport to peer devices.
type Channel interface {
	// Name identifies the transport in the UI and logs.
	Name() string
	// Start connects and attaches the inbound listener. Inbound paths arrive
	// as MessageMsg, topology changes as PeersMsg, and a lost connection as
	// ConnectionLostMsg. A returned error means the transport is unusable.
	Start(ctx context.Context, s Sender) error
	// Send delivers path (and optional payload) to one node.
	Send(ctx context.Context, nodeID, path string, payload []byte) error
	Close() error
}

// MessageMsg is an inbound message from a peer.
type MessageMsg struct {
	From    string
	Path    string
	Payload []byte
}

// PeersMsg reports the current set of reachable peers. Initial is true for
// the snapshot taken when the transport starts.
type PeersMsg struct {
	Nodes   []Node
	Initial bool
}

// ConnectionLostMsg reports that the transport dropped after Start.
type ConnectionLostMsg struct {
	Transport string
	Err       error
}

func (m ConnectionLostMsg) Error() string {
	if m.Err == nil {
		return m.Transport + " connection lost"
	}
	return m.Transport + " connection lost: " + m.Err.Error()
}
