package settings

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	_, err = store.Get(ctx, KeyVibrate)
	assert.ErrorIs(t, err, ErrNotFound)

	s := Defaults()
	require.NoError(t, s.Apply(ctx, store, KeyVibrate, "false"))
	require.NoError(t, s.Apply(ctx, store, KeyFrequency, "220"))
	require.NoError(t, s.Apply(ctx, store, KeyFrequency, "240"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := Load(ctx, reopened)
	require.NoError(t, err)
	assert.False(t, loaded.Vibrate)
	assert.Equal(t, 240, loaded.FrequencyMS)
	assert.Equal(t, 25.0, loaded.Sensitivity)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, KeySensitivity, "40"))
	got, err := store.Get(ctx, KeySensitivity)
	require.NoError(t, err)
	assert.Equal(t, "40", got)
}

func TestPostgresStore_GetAndSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db, DialectPostgres)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS swing_settings")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.Migrate(ctx))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM swing_settings WHERE key = $1")).
		WithArgs(KeyVibrate).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("false"))
	got, err := store.Get(ctx, KeyVibrate)
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM swing_settings WHERE key = $1")).
		WithArgs(KeyFrequency).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err = store.Get(ctx, KeyFrequency)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO swing_settings (key, value) VALUES ($1, $2)")).
		WithArgs(KeySensitivity, "30").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s := Defaults()
	require.NoError(t, s.Apply(ctx, store, KeySensitivity, "30"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
