package peer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopback_StartSendsSnapshot(t *testing.T) {
	l := NewLoopback(Node{ID: "phone-1", Name: "Demo phone"})
	sender := &recordSender{}

	require.NoError(t, l.Start(context.Background(), sender))

	peers := sender.peers()
	require.Len(t, peers, 1)
	assert.True(t, peers[0].Initial)
	assert.Equal(t, "Demo phone", peers[0].Nodes[0].Name)
}

func TestLoopback_SendRecordsDeliveries(t *testing.T) {
	l := NewLoopback(Node{ID: "phone-1"})
	ctx := context.Background()

	require.NoError(t, l.Send(ctx, "phone-1", "x", nil))
	assert.ErrorIs(t, l.Send(ctx, "phone-2", "x", nil), ErrUnknownNode)

	boom := errors.New("radio off")
	l.FailSends(boom)
	assert.ErrorIs(t, l.Send(ctx, "phone-1", "y", nil), boom)

	assert.Equal(t, []Delivery{{NodeID: "phone-1", Path: "x"}}, l.Deliveries())
}

func TestLoopback_InjectJoinLeave(t *testing.T) {
	l := NewLoopback()
	sender := &recordSender{}
	require.NoError(t, l.Start(context.Background(), sender))

	l.Inject("phone-1", "vibrate/false")
	l.Join(Node{ID: "phone-1"})
	l.Join(Node{ID: "phone-1"})
	l.Leave("phone-1")
	l.Leave("phone-1")

	msgs := sender.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, MessageMsg{From: "phone-1", Path: "vibrate/false"}, msgs[1])
	assert.Len(t, msgs[2].(PeersMsg).Nodes, 1)
	assert.Empty(t, msgs[3].(PeersMsg).Nodes)
}
