package sensor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"swing.klederson.com/internal/motion"
)

// StreamSource reads one sample per line from r. Fields are separated by
// whitespace or commas: "x y z" or "x,y,z". Blank lines and lines starting
// with '#' are skipped; malformed lines are logged and skipped.
type StreamSource struct {
	name   string
	r      io.Reader
	logger *zap.Logger
	now    func() time.Time

	once sync.Once
	stop chan struct{}
}

// NewStreamSource wraps r. name shows up in logs and SourceDoneMsg.
func NewStreamSource(name string, r io.Reader, logger *zap.Logger) *StreamSource {
	return &StreamSource{
		name:   name,
		r:      r,
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Start reads r in a goroutine until EOF, error or Stop.
func (s *StreamSource) Start(snd Sender) error {
	go s.run(snd)
	return nil
}

func (s *StreamSource) run(snd Sender) {
	scanner := bufio.NewScanner(s.r)
	lineNo := 0
	for scanner.Scan() {
		select {
		case <-s.stop:
			return
		default:
		}

		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sample, err := ParseLine(line)
		if err != nil {
			s.logger.Debug("Skipping malformed sample line",
				zap.String("source", s.name),
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			continue
		}
		snd.Send(SampleMsg{Sample: sample, At: s.now()})
	}

	err := scanner.Err()
	if err != nil {
		s.logger.Warn("Sample stream failed", zap.String("source", s.name), zap.Error(err))
	} else {
		s.logger.Info("Sample stream ended", zap.String("source", s.name), zap.Int("lines", lineNo))
	}
	snd.Send(SourceDoneMsg{Source: s.name, Err: err})
}

// Stop makes the reader goroutine exit before its next line. A blocked
// read is not interrupted; closing the underlying file does that.
func (s *StreamSource) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// ParseLine parses "x y z" or "x,y,z".
func ParseLine(line string) (motion.Sample, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) != 3 {
		return motion.Sample{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}

	var v [3]float64
	for i, f := range fields {
		n, err := cast.ToFloat64E(f)
		if err != nil {
			return motion.Sample{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		v[i] = n
	}
	return motion.Sample{X: v[0], Y: v[1], Z: v[2]}, nil
}
