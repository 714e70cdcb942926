package peer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"swing.klederson.com/internal/config"
)

// pubsub is the part of MQTTClient the channel uses; tests swap it out.
type pubsub interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Unsubscribe(topics ...string) error
	Disconnect()
}

type dialFunc func(cfg *config.MQTTConfig, will *Will, onLost func(error)) (pubsub, error)

func dialMQTT(cfg *config.MQTTConfig, will *Will, onLost func(error)) (pubsub, error) {
	return NewMQTTClient(cfg, will, onLost)
}

// MQTTChannel addresses peers through a broker.
//
// Topic layout, with prefix P:
//
//	P/<node>/<path>         message for <node>, e.g. swing/phone-1/x
//	P/presence/<node>       retained "online" / "offline" (Last-Will)
type MQTTChannel struct {
	cfg      config.MQTTConfig
	nodeID   string
	settle   time.Duration
	logger   *zap.Logger
	registry *Registry
	dial     dialFunc

	mu      sync.Mutex
	client  pubsub
	sender  Sender
	settled bool
}

// NewMQTTChannel creates a channel for nodeID. Nothing connects until Start.
func NewMQTTChannel(cfg config.MQTTConfig, nodeID string, logger *zap.Logger) *MQTTChannel {
	return &MQTTChannel{
		cfg:      cfg,
		nodeID:   nodeID,
		settle:   config.PresenceSettle,
		logger:   logger,
		registry: NewRegistry(),
		dial:     dialMQTT,
	}
}

func (c *MQTTChannel) Name() string {
	return "mqtt"
}

func (c *MQTTChannel) presenceTopic(node string) string {
	return c.cfg.TopicPrefix + "/" + config.PresenceTopic + "/" + node
}

func (c *MQTTChannel) inboxPrefix() string {
	return c.cfg.TopicPrefix + "/" + c.nodeID + "/"
}

// Topic returns the topic carrying path to nodeID.
func (c *MQTTChannel) Topic(nodeID, path string) string {
	return c.cfg.TopicPrefix + "/" + nodeID + "/" + path
}

// Start connects, subscribes to the inbox and presence topics, announces this
// node and, after the settle window, sends the initial PeersMsg.
func (c *MQTTChannel) Start(ctx context.Context, s Sender) error {
	will := &Will{Topic: c.presenceTopic(c.nodeID), Payload: config.PresenceOffline}
	client, err := c.dial(&c.cfg, will, func(err error) {
		c.logger.Error("MQTT connection lost", zap.Error(err))
		s.Send(ConnectionLostMsg{Transport: c.Name(), Err: err})
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.client = client
	c.sender = s
	c.mu.Unlock()

	inbox := c.inboxPrefix() + "#"
	if err := client.Subscribe(inbox, c.cfg.QoS, c.handleInbound); err != nil {
		client.Disconnect()
		return err
	}
	presence := c.presenceTopic("+")
	if err := client.Subscribe(presence, 1, c.handlePresence); err != nil {
		client.Disconnect()
		return err
	}
	if err := client.Publish(c.presenceTopic(c.nodeID), 1, true, []byte(config.PresenceOnline)); err != nil {
		client.Disconnect()
		return err
	}

	c.logger.Info("MQTT channel started",
		zap.String("broker", c.cfg.Broker),
		zap.String("inbox", inbox),
		zap.String("presence", presence),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.settle):
	}

	c.mu.Lock()
	c.settled = true
	c.mu.Unlock()

	s.Send(PeersMsg{Nodes: c.registry.Snapshot(), Initial: true})
	return nil
}

func (c *MQTTChannel) handleInbound(topic string, payload []byte) {
	path := strings.TrimPrefix(topic, c.inboxPrefix())
	if path == "" || path == topic {
		c.logger.Debug("Ignoring message outside inbox", zap.String("topic", topic))
		return
	}

	c.logger.Debug("Received peer message",
		zap.String("topic", topic),
		zap.Int("payload_size", len(payload)),
	)

	c.mu.Lock()
	s := c.sender
	c.mu.Unlock()
	if s != nil {
		s.Send(MessageMsg{Path: path, Payload: payload})
	}
}

func (c *MQTTChannel) handlePresence(topic string, payload []byte) {
	parts := strings.Split(topic, "/")
	node := parts[len(parts)-1]
	if node == "" || node == c.nodeID {
		return
	}

	changed := false
	switch string(payload) {
	case config.PresenceOnline:
		changed = c.registry.Upsert(node, "")
	case config.PresenceOffline, "":
		changed = c.registry.Remove(node)
	default:
		c.logger.Warn("Unknown presence payload",
			zap.String("node", node),
			zap.ByteString("payload", payload),
		)
		return
	}

	if !changed {
		return
	}

	c.logger.Info("Peer presence changed",
		zap.String("node", node),
		zap.ByteString("state", payload),
		zap.Int("peers", c.registry.Count()),
	)

	c.mu.Lock()
	s, settled := c.sender, c.settled
	c.mu.Unlock()
	if settled && s != nil {
		s.Send(PeersMsg{Nodes: c.registry.Snapshot()})
	}
}

// Send publishes path to nodeID. Delivery is best effort at the configured QoS.
func (c *MQTTChannel) Send(ctx context.Context, nodeID, path string, payload []byte) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return fmt.Errorf("mqtt channel not started")
	}
	return client.Publish(c.Topic(nodeID, path), c.cfg.QoS, false, payload)
}

// Close announces this node offline and disconnects.
func (c *MQTTChannel) Close() error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()
	if client == nil {
		return nil
	}

	err := client.Publish(c.presenceTopic(c.nodeID), 1, true, []byte(config.PresenceOffline))
	if uerr := client.Unsubscribe(c.inboxPrefix()+"#", c.presenceTopic("+")); uerr != nil {
		c.logger.Warn("Failed to unsubscribe", zap.Error(uerr))
	}
	client.Disconnect()
	return err
}
