package peer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"swing.klederson.com/internal/config"
)

func newTestMQTTChannel(t *testing.T, fake *fakeBroker) (*MQTTChannel, *Will, *func(error)) {
	cfg := config.MQTTConfig{Broker: "tcp://broker:1883", ClientID: "watch-1", TopicPrefix: "swing"}
	ch := NewMQTTChannel(cfg, "watch-1", zap.NewNop())
	ch.settle = 0

	var will Will
	var onLost func(error)
	ch.dial = func(cfg *config.MQTTConfig, w *Will, lost func(error)) (pubsub, error) {
		will = *w
		onLost = lost
		return fake, nil
	}
	return ch, &will, &onLost
}

func TestMQTTChannel_StartSnapshotsRetainedPresence(t *testing.T) {
	fake := newFakeBroker()
	fake.retained["swing/presence/phone-1"] = []byte("online")
	fake.retained["swing/presence/phone-old"] = []byte("offline")
	fake.retained["swing/presence/watch-1"] = []byte("offline")

	ch, will, _ := newTestMQTTChannel(t, fake)
	sender := &recordSender{}

	require.NoError(t, ch.Start(context.Background(), sender))

	assert.Equal(t, Will{Topic: "swing/presence/watch-1", Payload: "offline"}, *will)
	assert.Contains(t, fake.Published(), published{"swing/presence/watch-1", 1, true, "online"})

	peers := sender.peers()
	require.Len(t, peers, 1)
	assert.True(t, peers[0].Initial)
	require.Len(t, peers[0].Nodes, 1)
	assert.Equal(t, "phone-1", peers[0].Nodes[0].ID)
}

func TestMQTTChannel_InboundMessages(t *testing.T) {
	fake := newFakeBroker()
	ch, _, _ := newTestMQTTChannel(t, fake)
	sender := &recordSender{}
	require.NoError(t, ch.Start(context.Background(), sender))

	fake.deliver("swing/watch-1/sensitivity/30", "")
	fake.deliver("swing/phone-1/x", "")

	var msgs []MessageMsg
	for _, m := range sender.Messages() {
		if mm, ok := m.(MessageMsg); ok {
			msgs = append(msgs, mm)
		}
	}
	require.Len(t, msgs, 1)
	assert.Equal(t, "sensitivity/30", msgs[0].Path)
}

func TestMQTTChannel_PresenceChangesAfterStart(t *testing.T) {
	fake := newFakeBroker()
	ch, _, _ := newTestMQTTChannel(t, fake)
	sender := &recordSender{}
	require.NoError(t, ch.Start(context.Background(), sender))

	fake.deliver("swing/presence/phone-2", "online")
	fake.deliver("swing/presence/phone-2", "online")
	fake.deliver("swing/presence/phone-3", "online")
	fake.deliver("swing/presence/phone-2", "offline")
	fake.deliver("swing/presence/phone-9", "rebooting")

	peers := sender.peers()
	require.Len(t, peers, 4)
	assert.True(t, peers[0].Initial)
	assert.Empty(t, peers[0].Nodes)
	assert.False(t, peers[1].Initial)
	assert.Len(t, peers[1].Nodes, 1)
	assert.Len(t, peers[2].Nodes, 2)
	require.Len(t, peers[3].Nodes, 1)
	assert.Equal(t, "phone-3", peers[3].Nodes[0].ID)
}

func TestMQTTChannel_SendPublishesToPeerTopic(t *testing.T) {
	fake := newFakeBroker()
	ch, _, _ := newTestMQTTChannel(t, fake)

	err := ch.Send(context.Background(), "phone-1", "x", nil)
	assert.Error(t, err, "send before start")

	require.NoError(t, ch.Start(context.Background(), &recordSender{}))
	require.NoError(t, ch.Send(context.Background(), "phone-1", "y", nil))

	assert.Contains(t, fake.Published(), published{"swing/phone-1/y", 0, false, ""})
	assert.Equal(t, "swing/phone-1/x", ch.Topic("phone-1", "x"))
}

func TestMQTTChannel_ConnectionLost(t *testing.T) {
	fake := newFakeBroker()
	ch, _, onLost := newTestMQTTChannel(t, fake)
	sender := &recordSender{}
	require.NoError(t, ch.Start(context.Background(), sender))

	(*onLost)(errors.New("EOF"))

	msgs := sender.Messages()
	lost, ok := msgs[len(msgs)-1].(ConnectionLostMsg)
	require.True(t, ok)
	assert.Equal(t, "mqtt", lost.Transport)
	assert.Equal(t, "mqtt connection lost: EOF", lost.Error())
}

func TestMQTTChannel_DialFailure(t *testing.T) {
	ch := NewMQTTChannel(config.MQTTConfig{TopicPrefix: "swing"}, "watch-1", zap.NewNop())
	ch.dial = func(*config.MQTTConfig, *Will, func(error)) (pubsub, error) {
		return nil, errors.New("connection refused")
	}

	err := ch.Start(context.Background(), &recordSender{})
	assert.EqualError(t, err, "connection refused")
}

func TestMQTTChannel_CloseAnnouncesOffline(t *testing.T) {
	fake := newFakeBroker()
	ch, _, _ := newTestMQTTChannel(t, fake)
	require.NoError(t, ch.Start(context.Background(), &recordSender{}))

	require.NoError(t, ch.Close())

	pubs := fake.Published()
	assert.Equal(t, published{"swing/presence/watch-1", 1, true, "offline"}, pubs[len(pubs)-1])
	assert.ElementsMatch(t, []string{"swing/watch-1/#", "swing/presence/+"}, fake.unsubscribed)
	assert.True(t, fake.disconnected)

	assert.NoError(t, ch.Close())
}
