package peer

import (
	"context"
	"fmt"
	"sync"
)

// Delivery is one message handed to the loopback channel.
type Delivery struct {
	NodeID  string
	Path    string
	Payload []byte
}

// Loopback is an in-process channel for demo mode and tests. It knows a
// fixed set of nodes, records every Send and can inject inbound paths.
type Loopback struct {
	registry *Registry

	mu         sync.Mutex
	sender     Sender
	deliveries []Delivery
	failSend   error
}

// NewLoopback creates a loopback channel with the given peers.
func NewLoopback(nodes ...Node) *Loopback {
	r := NewRegistry()
	for _, n := range nodes {
		r.Upsert(n.ID, n.Name)
	}
	return &Loopback{registry: r}
}

func (l *Loopback) Name() string {
	return "loopback"
}

func (l *Loopback) Start(ctx context.Context, s Sender) error {
	l.mu.Lock()
	l.sender = s
	l.mu.Unlock()

	s.Send(PeersMsg{Nodes: l.registry.Snapshot(), Initial: true})
	return nil
}

func (l *Loopback) Send(ctx context.Context, nodeID, path string, payload []byte) error {
	if !l.registry.Has(nodeID) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failSend != nil {
		return l.failSend
	}
	l.deliveries = append(l.deliveries, Delivery{NodeID: nodeID, Path: path, Payload: payload})
	return nil
}

// FailSends makes every later Send return err (nil restores delivery).
func (l *Loopback) FailSends(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failSend = err
}

// Inject delivers path as if a peer had sent it.
func (l *Loopback) Inject(from, path string) {
	l.mu.Lock()
	s := l.sender
	l.mu.Unlock()
	if s != nil {
		s.Send(MessageMsg{From: from, Path: path})
	}
}

// Join adds a node and reports the new peer set.
func (l *Loopback) Join(n Node) {
	if !l.registry.Upsert(n.ID, n.Name) {
		return
	}
	l.notify()
}

// Leave removes a node and reports the new peer set.
func (l *Loopback) Leave(id string) {
	if !l.registry.Remove(id) {
		return
	}
	l.notify()
}

func (l *Loopback) notify() {
	l.mu.Lock()
	s := l.sender
	l.mu.Unlock()
	if s != nil {
		s.Send(PeersMsg{Nodes: l.registry.Snapshot()})
	}
}

// Deliveries returns a copy of everything sent so far.
func (l *Loopback) Deliveries() []Delivery {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Delivery, len(l.deliveries))
	copy(out, l.deliveries)
	return out
}

func (l *Loopback) Close() error {
	return nil
}
