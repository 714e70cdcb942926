package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, key := range []string{
		"SWING_NODE_ID", "SWING_TRANSPORT", "SWING_STORE", "SWING_STATIC_PEERS",
		"REDIS_ADDR", "REDIS_DB", "MQTT_BROKER", "MQTT_QOS", "MQTT_TOPIC_PREFIX",
		"LOG_LEVEL", "LOG_FORMAT", "SWING_LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cfg.NodeID, "swing-"))
	assert.Equal(t, TransportMQTT, cfg.Transport)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.False(t, cfg.StaticPeers)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "swing:settings:"+cfg.NodeID, cfg.Redis.Key)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, cfg.NodeID, cfg.MQTT.ClientID)
	assert.Equal(t, byte(0), cfg.MQTT.QoS)
	assert.Equal(t, "swing", cfg.MQTT.TopicPrefix)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "swing.log", cfg.Log.File)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("SWING_NODE_ID", "watch-1")
	t.Setenv("SWING_TRANSPORT", "ble")
	t.Setenv("SWING_STORE", "redis")
	t.Setenv("SWING_STATIC_PEERS", "true")
	t.Setenv("REDIS_ADDR", "test-redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MQTT_QOS", "1")
	t.Setenv("MQTT_TOPIC_PREFIX", "gym")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "watch-1", cfg.NodeID)
	assert.Equal(t, TransportBLE, cfg.Transport)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.True(t, cfg.StaticPeers)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "swing:settings:watch-1", cfg.Redis.Key)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "gym", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "watch-1", cfg.MQTT.ClientID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("MQTT_QOS", "5")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{NodeID: "n", Transport: TransportLoopback, Store: StoreMemory}
	require.NoError(t, cfg.Validate())

	cfg.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg.Transport = TransportMQTT
	cfg.Store = "floppy"
	assert.Error(t, cfg.Validate())

	cfg.Store = StorePostgres
	cfg.NodeID = ""
	assert.Error(t, cfg.Validate())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_KEY", "")
	assert.Equal(t, "default-value", getEnv("TEST_KEY", "default-value"))

	t.Setenv("TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getEnv("TEST_KEY", "default-value"))
}

func TestSetNodeID(t *testing.T) {
	t.Setenv("SWING_NODE_ID", "")
	t.Setenv("REDIS_SETTINGS_KEY", "")
	t.Setenv("MQTT_CLIENT_ID", "")
	cfg, err := Load()
	require.NoError(t, err)

	cfg.SetNodeID("wrist")
	assert.Equal(t, "wrist", cfg.NodeID)
	assert.Equal(t, "swing:settings:wrist", cfg.Redis.Key)
	assert.Equal(t, "wrist", cfg.MQTT.ClientID)

	t.Setenv("MQTT_CLIENT_ID", "fixed")
	cfg, err = Load()
	require.NoError(t, err)
	cfg.SetNodeID("other")
	assert.Equal(t, "fixed", cfg.MQTT.ClientID)
	assert.Equal(t, "swing:settings:other", cfg.Redis.Key)
}
