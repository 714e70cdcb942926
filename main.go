package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"swing.klederson.com/internal/app"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/haptics"
	"swing.klederson.com/internal/logger"
	"swing.klederson.com/internal/peer"
	"swing.klederson.com/internal/sensor"
	"swing.klederson.com/internal/session"
	"swing.klederson.com/internal/settings"
)

var version = config.AppVersion

var (
	flagDemo        bool
	flagHeadless    bool
	flagTransport   string
	flagStore       string
	flagNodeID      string
	flagBroker      string
	flagRedis       string
	flagSQLite      string
	flagPostgres    string
	flagInput       string
	flagStaticPeers bool
	flagLogLevel    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swing",
		Short: "SWING - wrist motion impact relay",
		Long: `SWING reads 3-axis acceleration, detects swings and impacts above a
sensitivity threshold, and relays a light ("x") or heavy ("y") impact to the
paired phones. Phones push back vibrate, sensitivity and frequency settings.

Samples come from --input (a file, serial device, or "-" for stdin in
headless mode). Use --demo for a synthetic sensor and an in-process phone.

Tap the face, press space, or send SIGUSR1 (headless) to toggle the mode.`,
		Version:      version,
		RunE:         run,
		SilenceUsage: true,
	}

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Run with a synthetic sensor and a loopback phone (no hardware required)")
	f.BoolVar(&flagHeadless, "headless", false, "Run without the terminal UI, logging to stderr")
	f.StringVar(&flagTransport, "transport", "", "Peer transport: mqtt, ble or loopback (env SWING_TRANSPORT)")
	f.StringVar(&flagStore, "store", "", "Settings store: sqlite, redis, postgres or memory (env SWING_STORE)")
	f.StringVar(&flagNodeID, "node-id", "", "Id of this watch on the peer channel (env SWING_NODE_ID)")
	f.StringVar(&flagBroker, "broker", "", "MQTT broker URL (env MQTT_BROKER)")
	f.StringVar(&flagRedis, "redis", "", "Redis address for the redis store (env REDIS_ADDR)")
	f.StringVar(&flagSQLite, "sqlite", "", "Database file for the sqlite store (env SWING_SQLITE_PATH)")
	f.StringVar(&flagPostgres, "postgres", "", "DSN for the postgres store (env SWING_POSTGRES_DSN)")
	f.StringVarP(&flagInput, "input", "i", "", `Sample stream: file or device path, or "-" for stdin`)
	f.BoolVar(&flagStaticPeers, "static-peers", false, "Only use the peers found at startup (env SWING_STATIC_PEERS)")
	f.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("node-id") {
		cfg.SetNodeID(flagNodeID)
	}
	if f.Changed("transport") {
		cfg.Transport = flagTransport
	}
	if f.Changed("store") {
		cfg.Store = flagStore
	}
	if f.Changed("broker") {
		cfg.MQTT.Broker = flagBroker
	}
	if f.Changed("redis") {
		cfg.Redis.Addr = flagRedis
	}
	if f.Changed("sqlite") {
		cfg.SQLitePath = flagSQLite
	}
	if f.Changed("postgres") {
		cfg.PostgresDSN = flagPostgres
	}
	if f.Changed("static-peers") {
		cfg.StaticPeers = flagStaticPeers
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flagDemo {
		cfg.Transport = config.TransportLoopback
		if !f.Changed("store") {
			cfg.Store = config.StoreMemory
		}
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the UI owns the terminal, so logs go to a file unless headless
	logOutput := cfg.Log.File
	if flagHeadless {
		logOutput = ""
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "swing", logOutput)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, err := settings.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to close settings store", zap.Error(err))
		}
	}()

	current, err := settings.Load(ctx, store)
	if err != nil {
		if !errors.Is(err, settings.ErrMalformedValue) {
			return err
		}
		log.Warn("Ignoring corrupt stored settings", zap.Error(err))
	}

	source, closeSource, err := openSource(log)
	if err != nil {
		return err
	}
	defer closeSource()

	channel, err := openChannel(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\npeer transport not available: %v\n\n", err)
		return err
	}

	var vibrator haptics.Vibrator = haptics.NewBell(os.Stderr)
	if flagHeadless {
		vibrator = haptics.NewLog(log)
	}

	sess := session.New(session.Options{
		Settings:    current,
		Store:       store,
		Vibrator:    vibrator,
		Logger:      log,
		StaticPeers: cfg.StaticPeers,
	})

	model := app.New(app.Options{
		Session:  sess,
		Channel:  channel,
		Sources:  []sensor.Source{source},
		Logger:   log,
		Headless: flagHeadless,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if flagHeadless {
		opts = append(opts, tea.WithoutRenderer(), tea.WithInput(nil))
	} else {
		opts = append(opts, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithFPS(config.TargetFPS))
	}

	p := tea.NewProgram(model, opts...)
	model.Attach(p)

	stopSignals := notifyToggle(p)
	defer stopSignals()

	log.Info("SWING started",
		zap.String("node_id", cfg.NodeID),
		zap.String("transport", channel.Name()),
		zap.String("store", cfg.Store),
		zap.Float64("sensitivity", current.Sensitivity),
		zap.Int("frequency_ms", current.FrequencyMS),
		zap.Bool("vibrate", current.Vibrate),
	)

	final, err := p.Run()
	model.Shutdown()
	if err != nil && !errors.Is(err, tea.ErrInterrupted) {
		return err
	}

	if m, ok := final.(app.AppModel); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n\n", m.Err())
		return m.Err()
	}
	return nil
}

func openChannel(cfg *config.Config, log *zap.Logger) (peer.Channel, error) {
	if flagDemo {
		return peer.NewLoopback(peer.Node{ID: "phone-demo", Name: "Demo Phone"}), nil
	}

	switch cfg.Transport {
	case config.TransportMQTT:
		return peer.NewMQTTChannel(cfg.MQTT, cfg.NodeID, log), nil
	case config.TransportBLE:
		ch, err := peer.NewBLEChannel(log)
		if err != nil {
			return nil, err
		}
		return ch, nil
	case config.TransportLoopback:
		return peer.NewLoopback(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// openSource picks the sample source. The returned func releases it.
func openSource(log *zap.Logger) (sensor.Source, func(), error) {
	nop := func() {}

	switch {
	case flagDemo && flagInput == "":
		return sensor.NewMockSource(), nop, nil

	case flagInput == "-":
		if !flagHeadless {
			return nil, nop, fmt.Errorf("reading samples from stdin requires --headless")
		}
		return sensor.NewStreamSource("stdin", os.Stdin, log), nop, nil

	case flagInput != "":
		file, err := os.Open(flagInput)
		if err != nil {
			return nil, nop, fmt.Errorf("failed to open sample input: %w", err)
		}
		return sensor.NewStreamSource(flagInput, file, log), closer(file, log), nil

	case flagHeadless:
		return sensor.NewStreamSource("stdin", os.Stdin, log), nop, nil

	default:
		return nil, nop, fmt.Errorf("no sample source: use --input <path> or --demo")
	}
}

func closer(c io.Closer, log *zap.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Debug("Failed to close sample input", zap.Error(err))
		}
	}
}
