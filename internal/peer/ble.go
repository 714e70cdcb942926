package peer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"swing.klederson.com/internal/config"
	"tinygo.org/x/bluetooth"
)

type blePeer struct {
	device  bluetooth.Device
	message bluetooth.DeviceCharacteristic
}

// BLEChannel talks to phones that advertise the swing GATT service.
// Peers are found by one scan at start; each is connected and its message
// characteristic written with the UTF-8 path. Inbound paths arrive as
// notifications.
type BLEChannel struct {
	adapter *bluetooth.Adapter
	window  time.Duration
	logger  *zap.Logger

	service bluetooth.UUID
	message bluetooth.UUID
	notify  bluetooth.UUID

	registry *Registry

	mu    sync.Mutex
	peers map[string]*blePeer
}

// NewBLEChannel creates a channel on the default adapter.
func NewBLEChannel(logger *zap.Logger) (*BLEChannel, error) {
	service, err := bluetooth.ParseUUID(config.BLEServiceUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid service uuid: %w", err)
	}
	message, err := bluetooth.ParseUUID(config.BLEMessageUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid message uuid: %w", err)
	}
	notify, err := bluetooth.ParseUUID(config.BLENotifyUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid notify uuid: %w", err)
	}

	return &BLEChannel{
		adapter:  bluetooth.DefaultAdapter,
		window:   config.BLEScanWindow,
		logger:   logger,
		service:  service,
		message:  message,
		notify:   notify,
		registry: NewRegistry(),
		peers:    make(map[string]*blePeer),
	}, nil
}

func (c *BLEChannel) Name() string {
	return "ble"
}

// Start enables the adapter, scans for one window and connects every phone
// found. The resulting set is the startup snapshot.
func (c *BLEChannel) Start(ctx context.Context, s Sender) error {
	if err := c.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	found := c.scan(ctx)
	c.logger.Info("BLE scan finished", zap.Int("candidates", len(found)))

	for addr, result := range found {
		if err := c.connect(result, s); err != nil {
			c.logger.Warn("Failed to connect BLE peer",
				zap.String("address", addr),
				zap.Error(err),
			)
			continue
		}
		c.registry.Upsert(addr, peerName(result))
	}

	s.Send(PeersMsg{Nodes: c.registry.Snapshot(), Initial: true})
	return nil
}

func (c *BLEChannel) scan(ctx context.Context) map[string]bluetooth.ScanResult {
	found := make(map[string]bluetooth.ScanResult)
	var mu sync.Mutex

	stop := time.AfterFunc(c.window, func() {
		_ = c.adapter.StopScan()
	})
	defer stop.Stop()

	go func() {
		<-ctx.Done()
		_ = c.adapter.StopScan()
	}()

	err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !result.HasServiceUUID(c.service) {
			return
		}
		mu.Lock()
		found[result.Address.String()] = result
		mu.Unlock()
	})
	if err != nil {
		c.logger.Warn("BLE scan stopped with error", zap.Error(err))
	}

	mu.Lock()
	defer mu.Unlock()
	return found
}

func (c *BLEChannel) connect(result bluetooth.ScanResult, s Sender) error {
	addr := result.Address.String()

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{c.service})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("discover service: %v", err)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{c.message, c.notify})
	if err != nil {
		_ = device.Disconnect()
		return fmt.Errorf("discover characteristics: %w", err)
	}

	p := &blePeer{device: device}
	hasMessage := false
	for _, ch := range chars {
		switch ch.UUID() {
		case c.message:
			p.message = ch
			hasMessage = true
		case c.notify:
			err := ch.EnableNotifications(func(buf []byte) {
				s.Send(MessageMsg{From: addr, Path: string(buf)})
			})
			if err != nil {
				c.logger.Warn("Failed to enable notifications",
					zap.String("address", addr),
					zap.Error(err),
				)
			}
		}
	}
	if !hasMessage {
		_ = device.Disconnect()
		return fmt.Errorf("peer %s has no message characteristic", addr)
	}

	c.mu.Lock()
	c.peers[addr] = p
	c.mu.Unlock()
	return nil
}

// Send writes path to the peer's message characteristic. payload is ignored;
// impact and settings messages carry everything in the path.
func (c *BLEChannel) Send(ctx context.Context, nodeID, path string, payload []byte) error {
	c.mu.Lock()
	p, ok := c.peers[nodeID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	if _, err := p.message.WriteWithoutResponse([]byte(path)); err != nil {
		return fmt.Errorf("ble write to %s: %w", nodeID, err)
	}
	return nil
}

// Close disconnects every peer.
func (c *BLEChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for addr, p := range c.peers {
		if err := p.device.Disconnect(); err != nil {
			c.logger.Warn("BLE disconnect failed", zap.String("address", addr), zap.Error(err))
		}
		delete(c.peers, addr)
	}
	return nil
}

// peerName uses the advertised name, falling back to the manufacturer plus
// the last two address octets.
func peerName(result bluetooth.ScanResult) string {
	if name := result.LocalName(); name != "" {
		return name
	}
	mfrs := result.ManufacturerData()
	if len(mfrs) == 0 {
		return ""
	}
	return vendorLabel(mfrs[0].CompanyID, result.Address.String())
}
