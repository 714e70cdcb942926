package config

import "time"

const (
	// Classifier defaults (used when the settings store has no value)
	DefaultVibrate     = true
	DefaultSensitivity = 25.0 // m/s², magnitude threshold
	DefaultFrequencyMS = 150  // debounce window in milliseconds

	// Feedback
	VibratePulse = 150 * time.Millisecond // length of one vibration pulse

	// Display
	TitleSize     = 24 // idle title scale (points on the watch face)
	TitleSizeHit  = 36 // title scale while debouncing
	TargetFPS     = 30 // Target frames per second
	HistoryLength = 120

	// Dial
	AspectRatio  = 0.5  // Terminal character height/width ratio
	DialMaxMag   = 60.0 // m/s² at the rim
	DialTicks    = 12   // hour marks around the rim
	RippleMinDur = 120 * time.Millisecond

	// Peers
	PresenceTopic   = "presence"
	PresenceOnline  = "online"
	PresenceOffline = "offline"
	PresenceSettle  = 500 * time.Millisecond // wait for retained presence before the first snapshot
	BLEScanWindow   = 5 * time.Second // startup scan for BLE peers

	// BLE GATT layout exposed by the paired phone
	BLEServiceUUID = "6e7a0001-5b1e-4c2b-9d4c-7377696e6701"
	BLEMessageUUID = "6e7a0002-5b1e-4c2b-9d4c-7377696e6701" // write: watch -> phone
	BLENotifyUUID  = "6e7a0003-5b1e-4c2b-9d4c-7377696e6701" // notify: phone -> watch

	// Sensor
	MockSampleInterval = 10 * time.Millisecond // 100 Hz demo stream

	// App
	AppName    = "SWING"
	AppVersion = "1.0"
)
