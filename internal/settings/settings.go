// Package settings holds the three classifier tunables and persists them in a
// key/value store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"swing.klederson.com/internal/config"
)

// Persisted keys. They double as the inbound message path prefixes.
const (
	KeyVibrate     = "vibrate"
	KeySensitivity = "sensitivity"
	KeyFrequency   = "frequency"
)

var (
	// ErrNotFound is returned by a Store when a key has never been written.
	ErrNotFound = errors.New("setting not found")
	// ErrMalformedValue wraps parse failures of inbound or stored values.
	ErrMalformedValue = errors.New("malformed setting value")
	// ErrUnknownKey is returned for paths that name no setting.
	ErrUnknownKey = errors.New("unknown setting key")
)

// Settings are the user tunables. No range checks are applied: negative
// sensitivity or debounce values are kept as given.
type Settings struct {
	Vibrate     bool
	Sensitivity float64
	FrequencyMS int
}

// Defaults returns the values used for keys missing from the store.
func Defaults() Settings {
	return Settings{
		Vibrate:     config.DefaultVibrate,
		Sensitivity: config.DefaultSensitivity,
		FrequencyMS: config.DefaultFrequencyMS,
	}
}

// Debounce returns the debounce window.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.FrequencyMS) * time.Millisecond
}

// Load reads all settings from the store. Missing keys take their default.
// A stored value that cannot be parsed also takes its default and is
// reported in the returned error, so callers may log and carry on.
func Load(ctx context.Context, store Store) (Settings, error) {
	s := Defaults()
	var errs []error

	for _, key := range []string{KeyVibrate, KeySensitivity, KeyFrequency} {
		raw, err := store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Defaults(), fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		if err := s.set(key, raw); err != nil {
			errs = append(errs, err)
		}
	}

	return s, errors.Join(errs...)
}

// Apply parses raw for key, updates the field and persists it.
// On a parse failure nothing changes and nothing is written.
func (s *Settings) Apply(ctx context.Context, store Store, key, raw string) error {
	if err := s.set(key, raw); err != nil {
		return err
	}
	if err := store.Set(ctx, key, s.value(key)); err != nil {
		return fmt.Errorf("failed to persist setting %s: %w", key, err)
	}
	return nil
}

func (s *Settings) set(key, raw string) error {
	switch key {
	case KeyVibrate:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return malformed(key, raw, err)
		}
		s.Vibrate = v
	case KeySensitivity:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return malformed(key, raw, err)
		}
		s.Sensitivity = v
	case KeyFrequency:
		// base 10 only: cast would read "0150" as octal
		v, err := strconv.Atoi(raw)
		if err != nil {
			return malformed(key, raw, err)
		}
		s.FrequencyMS = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

func (s *Settings) value(key string) string {
	switch key {
	case KeyVibrate:
		return cast.ToString(s.Vibrate)
	case KeySensitivity:
		return cast.ToString(s.Sensitivity)
	default:
		return cast.ToString(s.FrequencyMS)
	}
}

func malformed(key, raw string, err error) error {
	return fmt.Errorf("%w: %s=%q: %v", ErrMalformedValue, key, raw, err)
}

// ParsePath splits an inbound message path like "sensitivity/30" into its
// key and value. Only the segment after the first slash is the value, so
// "frequency/200/extra" yields "200".
func ParsePath(path string) (key, value string, err error) {
	key, rest, found := strings.Cut(path, "/")
	if !found {
		return "", "", fmt.Errorf("%w: path %q has no value", ErrMalformedValue, path)
	}
	value, _, _ = strings.Cut(rest, "/")
	for _, known := range []string{KeyVibrate, KeySensitivity, KeyFrequency} {
		if key == known {
			return key, value, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}
