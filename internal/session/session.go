// Package session is the controller state driven by the event loop: current
// settings, the classifier, and the peer snapshot impacts are sent to.
//
// A Session is not safe for concurrent use. The app calls it only from
// bubbletea's Update, which is the single writer.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"swing.klederson.com/internal/config"
	"swing.klederson.com/internal/haptics"
	"swing.klederson.com/internal/motion"
	"swing.klederson.com/internal/peer"
	"swing.klederson.com/internal/settings"
)

// Stats counts what the session has seen since start.
type Stats struct {
	Samples          int
	Impacts          int
	Sent             int
	SendFailures     int
	SettingsApplied  int
	SettingsRejected int
	LastMagnitude    float64
	PeakMagnitude    float64
	LastImpact       time.Time
}

// Outcome is what the caller must do after an impact: schedule one
// debounce expiry and deliver Path to every target.
type Outcome struct {
	Impact   motion.Impact
	Path     string
	Targets  []peer.Node
	Debounce time.Duration
}

type Session struct {
	settings    settings.Settings
	store       settings.Store
	classifier  *motion.Classifier
	vibrator    haptics.Vibrator
	logger      *zap.Logger
	now         func() time.Time
	staticPeers bool

	peers       []peer.Node
	peersLoaded bool
	stats       Stats
}

// Options configures a Session.
type Options struct {
	Settings settings.Settings
	Store    settings.Store
	Vibrator haptics.Vibrator
	Logger   *zap.Logger
	// StaticPeers keeps the first peer snapshot for the whole run.
	StaticPeers bool
}

func New(opts Options) *Session {
	v := opts.Vibrator
	if v == nil {
		v = haptics.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		settings:    opts.Settings,
		store:       opts.Store,
		classifier:  motion.NewClassifier(),
		vibrator:    v,
		logger:      logger,
		now:         time.Now,
		staticPeers: opts.StaticPeers,
	}
}

// HandleSample runs the classifier. On an impact it vibrates if enabled and
// returns the work the caller has to schedule.
func (s *Session) HandleSample(sample motion.Sample) (Outcome, bool) {
	s.stats.Samples++
	mag := sample.Magnitude()
	s.stats.LastMagnitude = mag
	if mag > s.stats.PeakMagnitude {
		s.stats.PeakMagnitude = mag
	}

	impact, ok := s.classifier.Detect(sample, s.settings.Sensitivity)
	if !ok {
		return Outcome{}, false
	}

	s.stats.Impacts++
	s.stats.LastImpact = s.now()

	if s.settings.Vibrate {
		s.vibrator.Vibrate(config.VibratePulse)
	}

	targets := make([]peer.Node, len(s.peers))
	copy(targets, s.peers)

	s.logger.Info("Impact detected",
		zap.Stringer("mode", impact.Mode),
		zap.Float64("magnitude", mag),
		zap.Float64("sensitivity", s.settings.Sensitivity),
		zap.Int("peers", len(targets)),
	)

	return Outcome{
		Impact:   impact,
		Path:     impact.Path(),
		Targets:  targets,
		Debounce: s.settings.Debounce(),
	}, true
}

// HandleDebounceExpired closes the debounce window opened by the last impact.
func (s *Session) HandleDebounceExpired() {
	s.classifier.Release()
}

// HandleSettingsMessage applies an inbound "key/value" path and persists it.
// Unknown keys are ignored at debug level; malformed values leave the
// setting unchanged. Both are returned so callers can surface them.
func (s *Session) HandleSettingsMessage(ctx context.Context, path string) error {
	key, value, err := settings.ParsePath(path)
	if err == nil {
		err = s.settings.Apply(ctx, s.store, key, value)
	}

	switch {
	case err == nil:
		s.stats.SettingsApplied++
		s.logger.Info("Setting updated",
			zap.String("key", key),
			zap.String("value", value),
		)
	case errors.Is(err, settings.ErrUnknownKey):
		s.logger.Debug("Ignoring message", zap.String("path", path))
	default:
		s.stats.SettingsRejected++
		s.logger.Warn("Rejected setting update", zap.String("path", path), zap.Error(err))
	}
	return err
}

// HandleToggle flips the impact mode.
func (s *Session) HandleToggle() motion.Mode {
	mode := s.classifier.Toggle()
	s.logger.Info("Mode toggled", zap.Stringer("mode", mode))
	return mode
}

// HandlePeers replaces the peer snapshot. With static peers only the
// initial snapshot is taken. Reports whether the snapshot changed.
func (s *Session) HandlePeers(nodes []peer.Node, initial bool) bool {
	if s.staticPeers && (!initial || s.peersLoaded) {
		return false
	}

	s.peers = make([]peer.Node, len(nodes))
	copy(s.peers, nodes)
	s.peersLoaded = true

	s.logger.Info("Peer list updated",
		zap.Int("peers", len(nodes)),
		zap.Bool("initial", initial),
	)
	return true
}

// RecordSend counts the result of one delivery.
func (s *Session) RecordSend(err error) {
	if err != nil {
		s.stats.SendFailures++
		return
	}
	s.stats.Sent++
}

func (s *Session) Settings() settings.Settings { return s.settings }
func (s *Session) Mode() motion.Mode          { return s.classifier.Mode() }
func (s *Session) Debouncing() bool           { return s.classifier.Debouncing() }
func (s *Session) Stats() Stats               { return s.stats }

// Peers returns a copy of the current snapshot.
func (s *Session) Peers() []peer.Node {
	out := make([]peer.Node, len(s.peers))
	copy(out, s.peers)
	return out
}
