package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

// sqliteCode extracts the primary result code from a driver error.
func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

// IsBusyError reports whether SQLite refused the statement because another
// connection holds the lock.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}

var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

// IsCorruptionError reports whether err means the database file is unusable.
// Errors that lost their driver type are matched by message.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.SQLITE_CORRUPT || code == sqlite3.SQLITE_NOTADB
	}
	msg := err.Error()
	return slices.ContainsFunc(corruptionMessages, func(s string) bool {
		return strings.Contains(msg, s)
	})
}

// IsNotFoundError reports whether err wraps sql.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

const (
	busyAttempts = 4
	busyBackoff  = 25 * time.Millisecond
)

// retryBusy calls fn until it returns something other than a busy error,
// doubling the wait between attempts.
func retryBusy(ctx context.Context, fn func() error) error {
	var err error
	for attempt := range busyAttempts {
		if err = fn(); !IsBusyError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyBackoff << attempt):
		}
	}
	return err
}

// QuarantineCorrupt renames a corrupt journal database, with its -wal and
// -shm companions, to a timestamped backup so the next open starts empty.
// It returns the backup path of the main file.
func QuarantineCorrupt(dataDir string) (string, error) {
	live := filepath.Join(dataDir, db.FileName)
	backup := live + ".corrupt." + time.Now().Format("20060102-150405")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Rename(live+suffix, backup+suffix)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		// A stale -wal or -shm left in place would be replayed into the new file.
		if suffix != "" && os.Remove(live+suffix) == nil {
			continue
		}
		return "", fmt.Errorf("move %s aside: %w", filepath.Base(live+suffix), err)
	}
	return backup, nil
}
