package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsCorruptionError_Messages(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
	assert.False(t, IsCorruptionError(errors.New("no such table")))
	assert.False(t, IsCorruptionError(nil))
}

func TestIsBusyError_PlainError(t *testing.T) {
	assert.False(t, IsBusyError(errors.New("database is locked")))
	assert.False(t, IsBusyError(nil))
}

func TestRetryBusy_ReturnsNonBusyErrorImmediately(t *testing.T) {
	calls := 0
	want := errors.New("constraint failed")

	err := retryBusy(context.Background(), func() error {
		calls++
		return want
	})
	require.ErrorIs(t, err, want)
	assert.Equal(t, 1, calls)
}

func TestQuarantineCorrupt(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm"), 0o644))

	backup, err := QuarantineCorrupt(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(backup), db.FileName+".corrupt."))

	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")
	assert.NoFileExists(t, dbPath+"-shm")
	assert.FileExists(t, backup)
	assert.FileExists(t, backup+"-wal")
	assert.FileExists(t, backup+"-shm")

	// A fresh database opens cleanly afterwards.
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

func TestQuarantineCorrupt_NothingToMove(t *testing.T) {
	_, err := QuarantineCorrupt(t.TempDir())
	assert.NoError(t, err)
}
