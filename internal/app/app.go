package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/face"
	"swing.klederson.com/internal/motion"
	"swing.klederson.com/internal/peer"
	"swing.klederson.com/internal/sensor"
	"swing.klederson.com/internal/session"
	"swing.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	session *session.Session
	channel peer.Channel
	sources []sensor.Source
	sender  Sender
	logger  *zap.Logger

	ripple  *face.Ripple
	history *History

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

// Options wires the model to its collaborators.
type Options struct {
	Session  *session.Session
	Channel  peer.Channel
	Sources  []sensor.Source
	Logger   *zap.Logger
	Headless bool
}

// AppModel is the root Bubble Tea model for SWING. Every input reaches the
// session through Update, so session state has a single writer.
type AppModel struct {
	width  int
	height int

	headless   bool
	link       ui.LinkState
	notice     string
	lastPath   string
	lastSample motion.Sample

	shared *shared
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return AppModel{
		headless: opts.Headless,
		shared: &shared{
			session: opts.Session,
			channel: opts.Channel,
			sources: opts.Sources,
			logger:  logger,
			ripple:  face.NewRipple(),
			history: NewHistory(config.HistoryLength),
			ctx:     ctx,
			cancel:  cancel,
		},
	}
}

// Attach sets where transports and sources deliver their messages. Must be
// called before p.Run().
func (m *AppModel) Attach(s Sender) {
	m.shared.sender = s
}

// Err returns the fatal error that ended the program, if any.
func (m AppModel) Err() error {
	return m.shared.err
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startChannel(), m.startSources()}
	if !m.headless {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.toggle()
		}
		return m, nil

	case ToggleMsg:
		m.toggle()
		return m, nil

	case TickMsg:
		m.shared.ripple.Update()
		return m, tickCmd()

	case sensor.SampleMsg:
		return m.handleSample(msg)

	case DebounceExpiredMsg:
		m.shared.session.HandleDebounceExpired()
		return m, nil

	case peer.MessageMsg:
		// errors are logged by the session; the loop carries on
		_ = m.shared.session.HandleSettingsMessage(m.shared.ctx, msg.Path)
		return m, nil

	case peer.PeersMsg:
		m.shared.session.HandlePeers(msg.Nodes, msg.Initial)
		return m, nil

	case TransportReadyMsg:
		m.link = ui.LinkOnline
		m.shared.logger.Info("Peer transport ready", zap.String("transport", msg.Transport))
		return m, nil

	case TransportFailedMsg:
		return m.fail(fmt.Errorf("peer transport not available: %s: %w", msg.Transport, msg.Err))

	case peer.ConnectionLostMsg:
		return m.fail(fmt.Errorf("peer transport not available: %w", msg))

	case SendResultMsg:
		m.shared.session.RecordSend(msg.Err)
		if msg.Err != nil {
			m.shared.logger.Warn("Failed to send impact",
				zap.String("node", msg.NodeID),
				zap.String("path", msg.Path),
				zap.Error(msg.Err),
			)
		}
		return m, nil

	case sensor.SourceDoneMsg:
		if msg.Err != nil {
			m.notice = "sensor " + msg.Source + " failed"
			m.shared.logger.Warn("Sensor source failed", zap.String("source", msg.Source), zap.Error(msg.Err))
		} else {
			m.shared.logger.Info("Sensor source finished", zap.String("source", msg.Source))
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.Shutdown()
		return m, tea.Quit

	case " ", "enter", "m", "M":
		m.toggle()
	}

	return m, nil
}

func (m *AppModel) toggle() {
	m.shared.session.HandleToggle()
}

func (m AppModel) handleSample(msg sensor.SampleMsg) (tea.Model, tea.Cmd) {
	m.lastSample = msg.Sample
	m.shared.history.Push(msg.Sample.Magnitude())

	out, ok := m.shared.session.HandleSample(msg.Sample)
	if !ok {
		return m, nil
	}

	m.lastPath = out.Path
	m.shared.ripple.Start(out.Debounce)

	cmds := make([]tea.Cmd, 0, len(out.Targets)+1)
	cmds = append(cmds, debounceCmd(out.Debounce))
	for _, n := range out.Targets {
		cmds = append(cmds, m.sendCmd(n.ID, out.Path))
	}
	return m, tea.Batch(cmds...)
}

// fail records a fatal error and quits.
func (m AppModel) fail(err error) (tea.Model, tea.Cmd) {
	m.link = ui.LinkDown
	m.notice = err.Error()
	m.shared.err = err
	m.shared.logger.Error("Fatal error", zap.Error(err))
	m.Shutdown()
	return m, tea.Quit
}

func (m AppModel) View() string {
	if m.headless {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing SWING..."
	}

	sess := m.shared.session
	mode, debouncing := sess.Mode(), sess.Debouncing()
	stats := sess.Stats()
	peers := sess.Peers()

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 10 {
		bodyH = 10
	}

	faceW := m.width * 3 / 5
	if faceW < 30 {
		faceW = 30
	}
	sideW := m.width - faceW
	if sideW < 24 {
		sideW = 24
		faceW = m.width - sideW
	}

	innerW := faceW - 4
	innerH := bodyH - 4
	if innerW < 5 {
		innerW = 5
	}
	if innerH < 3 {
		innerH = 3
	}
	dial := face.Render(innerW, innerH, face.State{
		Mode:        mode,
		Debouncing:  debouncing,
		Magnitude:   m.shared.history.Last(),
		Sensitivity: sess.Settings().Sensitivity,
		Peers:       peers,
		Ripple:      m.shared.ripple,
	})
	facePanel := ui.RenderFacePanel(faceW, bodyH, dial, face.RenderLegend(innerW), face.Background(mode, debouncing))

	peerH := bodyH / 3
	if peerH < 7 {
		peerH = 7
	}
	transport := ""
	if m.shared.channel != nil {
		transport = m.shared.channel.Name()
	}
	peerList := ui.RenderPeerList(peers, sideW, peerH, transport, m.lastPath)
	meter := ui.RenderMeterPanel(ui.MeterInfo{
		Settings:   sess.Settings(),
		Magnitude:  m.shared.history.Last(),
		Peak:       stats.PeakMagnitude,
		History:    m.shared.history.Values(),
		LastImpact: stats.LastImpact,
		Direction:  [2]float64{m.lastSample.X, m.lastSample.Y},
	}, sideW, bodyH-peerH)

	menuBar := ui.RenderMenuBar(m.width, mode, debouncing)
	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		Transport: transport,
		Link:      m.link,
		Peers:     len(peers),
		Impacts:   stats.Impacts,
		Sent:      stats.Sent,
		Failed:    stats.SendFailures,
		Notice:    m.notice,
	})

	return ui.ComposeLayout(menuBar, facePanel, ui.Stack(peerList, meter), statusBar)
}

// startChannel connects the peer transport off the event loop. The
// transport reports the startup peer snapshot itself through the sender.
func (m AppModel) startChannel() tea.Cmd {
	sh := m.shared
	return func() tea.Msg {
		if sh.channel == nil {
			return TransportFailedMsg{Transport: "none", Err: fmt.Errorf("no peer channel configured")}
		}
		if err := sh.channel.Start(sh.ctx, sh.sender); err != nil {
			return TransportFailedMsg{Transport: sh.channel.Name(), Err: err}
		}
		return TransportReadyMsg{Transport: sh.channel.Name()}
	}
}

func (m AppModel) startSources() tea.Cmd {
	sh := m.shared
	return func() tea.Msg {
		for i, src := range sh.sources {
			if err := src.Start(sh.sender); err != nil {
				return sensor.SourceDoneMsg{Source: fmt.Sprintf("source %d", i), Err: err}
			}
		}
		return nil
	}
}

func (m AppModel) sendCmd(nodeID, path string) tea.Cmd {
	sh := m.shared
	return func() tea.Msg {
		err := sh.channel.Send(sh.ctx, nodeID, path, nil)
		return SendResultMsg{NodeID: nodeID, Path: path, Err: err}
	}
}

// Shutdown stops the sources and closes the peer channel. Safe to call more
// than once.
func (m AppModel) Shutdown() {
	sh := m.shared
	sh.once.Do(func() {
		for _, src := range sh.sources {
			src.Stop()
		}
		if sh.channel != nil {
			if err := sh.channel.Close(); err != nil {
				sh.logger.Warn("Failed to close peer channel", zap.Error(err))
			}
		}
		sh.cancel()
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func debounceCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DebounceExpiredMsg{}
	})
}
