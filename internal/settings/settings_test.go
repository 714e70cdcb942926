package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	return f.err
}

func TestLoad_DefaultsWhenEmpty(t *testing.T) {
	s, err := Load(context.Background(), NewMemoryStore())
	require.NoError(t, err)

	assert.True(t, s.Vibrate)
	assert.Equal(t, 25.0, s.Sensitivity)
	assert.Equal(t, 150, s.FrequencyMS)
	assert.Equal(t, 150*time.Millisecond, s.Debounce())
}

func TestLoad_StoredValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyVibrate, "false"))
	require.NoError(t, store.Set(ctx, KeySensitivity, "12.5"))
	require.NoError(t, store.Set(ctx, KeyFrequency, "400"))

	s, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Settings{Vibrate: false, Sensitivity: 12.5, FrequencyMS: 400}, s)
}

func TestLoad_CorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeySensitivity, "loud"))
	require.NoError(t, store.Set(ctx, KeyFrequency, "90"))

	s, err := Load(ctx, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedValue)
	assert.Equal(t, 25.0, s.Sensitivity)
	assert.Equal(t, 90, s.FrequencyMS)
}

func TestApply_VibrateFalsePersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := Defaults()

	require.NoError(t, s.Apply(ctx, store, KeyVibrate, "false"))
	assert.False(t, s.Vibrate)

	raw, err := store.Get(ctx, KeyVibrate)
	require.NoError(t, err)
	assert.Equal(t, "false", raw)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)
	assert.False(t, reloaded.Vibrate)
}

func TestApply_MalformedSensitivityLeavesPriorValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := Defaults()
	require.NoError(t, s.Apply(ctx, store, KeySensitivity, "30"))

	err := s.Apply(ctx, store, KeySensitivity, "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedValue)
	assert.Equal(t, 30.0, s.Sensitivity)

	raw, err := store.Get(ctx, KeySensitivity)
	require.NoError(t, err)
	assert.Equal(t, "30", raw)
}

func TestApply_NoRangeValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := Defaults()

	require.NoError(t, s.Apply(ctx, store, KeySensitivity, "-4.5"))
	require.NoError(t, s.Apply(ctx, store, KeyFrequency, "-10"))
	assert.Equal(t, -4.5, s.Sensitivity)
	assert.Equal(t, -10, s.FrequencyMS)
}

func TestApply_Frequency(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := Defaults()

	require.NoError(t, s.Apply(ctx, store, KeyFrequency, "0150"))
	assert.Equal(t, 150, s.FrequencyMS)

	assert.ErrorIs(t, s.Apply(ctx, store, KeyFrequency, "1.5"), ErrMalformedValue)
	assert.ErrorIs(t, s.Apply(ctx, store, KeyVibrate, "maybe"), ErrMalformedValue)
	assert.ErrorIs(t, s.Apply(ctx, store, "volume", "3"), ErrUnknownKey)
	assert.Equal(t, 150, s.FrequencyMS)
}

func TestApply_PersistFailure(t *testing.T) {
	boom := errors.New("disk full")
	store := &failingStore{MemoryStore: NewMemoryStore(), err: boom}
	s := Defaults()

	err := s.Apply(context.Background(), store, KeyVibrate, "false")
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Vibrate)
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path      string
		key       string
		value     string
		expectErr error
	}{
		{"vibrate/true", KeyVibrate, "true", nil},
		{"sensitivity/31.5", KeySensitivity, "31.5", nil},
		{"frequency/200", KeyFrequency, "200", nil},
		{"frequency/200/extra", KeyFrequency, "200", nil},
		{"sensitivity/", KeySensitivity, "", nil},
		{"sensitivity", "", "", ErrMalformedValue},
		{"volume/3", "", "", ErrUnknownKey},
		{"x", "", "", ErrMalformedValue},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, value, err := ParsePath(tt.path)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}
