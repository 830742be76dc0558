package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	database, err := NewDB(filepath.Join(t.TempDir(), "portal.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")
	first, err := NewDB(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewDB(path, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestDB_HealthCheck(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.HealthCheck(context.Background()))

	require.NoError(t, database.Close())
	assert.Error(t, database.HealthCheck(context.Background()))
}
