package peer

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"swing.klederson.com/internal/config"
)

// MessageHandler handles one inbound MQTT message.
type MessageHandler func(topic string, payload []byte)

// Will is the retained Last-Will the broker publishes if we vanish.
type Will struct {
	Topic   string
	Payload string
}

// MQTTClient wraps a paho client with the calls the channel needs.
type MQTTClient struct {
	client mqtt.Client
}

// NewMQTTClient connects to the broker. onLost is called from paho's
// goroutine when an established connection drops.
func NewMQTTClient(cfg *config.MQTTConfig, will *Will, onLost func(error)) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if will != nil {
		opts.SetWill(will.Topic, will.Payload, 1, true)
	}

	// a dropped connection ends the session, so no reconnect
	opts.SetAutoReconnect(false)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if onLost != nil {
			onLost(err)
		}
	})

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}

	return &MQTTClient{client: client}, nil
}

// Subscribe registers handler for topic (wildcards allowed).
func (c *MQTTClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Publish sends payload to topic and waits for the token.
func (c *MQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Unsubscribe removes subscriptions.
func (c *MQTTClient) Unsubscribe(topics ...string) error {
	token := c.client.Unsubscribe(topics...)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe: %w", token.Error())
	}
	return nil
}

// Disconnect closes the connection after a 250ms grace period.
func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250)
}
