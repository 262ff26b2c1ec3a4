package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

type direction string

const (
	up   direction = "up"
	down direction = "down"
)

var migrationFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// parseFilename splits "0001_journal.up.sql" into its version, name and direction.
func parseFilename(filename string) (int, string, direction, error) {
	m := migrationFile.FindStringSubmatch(filename)
	if m == nil {
		return 0, "", "", fmt.Errorf("want NNNN_name.up.sql or NNNN_name.down.sql, got %q", filename)
	}
	version, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", "", fmt.Errorf("version %q: %w", m[1], err)
	}
	if version == 0 {
		return 0, "", "", fmt.Errorf("version must be positive in %q", filename)
	}
	return version, m[2], direction(m[3]), nil
}

// embeddedMigrations parses the embedded files once.
var embeddedMigrations = sync.OnceValues(func() ([]Migration, error) {
	return loadMigrations(migrationsFS, "migrations")
})

// loadMigrations reads paired up/down files from root, sorted by version.
func loadMigrations(fsys fs.FS, root string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := map[int]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, d, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, path.Join(root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("version %04d is named both %q and %q", version, m.Name, name)
		}

		slot := &m.UpSQL
		if d == down {
			slot = &m.DownSQL
		}
		if *slot != "" {
			return nil, fmt.Errorf("version %04d has two %s files", version, d)
		}
		*slot = string(body)
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("version %04d (%s) needs both up and down files", m.Version, m.Name)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

// migrateUp applies every embedded migration not yet recorded.
func migrateUp(ctx context.Context, conn *sql.DB) error {
	all, applied, err := migrationState(ctx, conn)
	if err != nil {
		return err
	}
	for _, m := range all {
		if applied[m.Version] {
			continue
		}
		if err := step(ctx, conn, m, up); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts the n most recently applied migrations, newest first.
func MigrateDown(ctx context.Context, conn *sql.DB, n int) error {
	if n < 1 {
		return fmt.Errorf("revert count must be at least 1, got %d", n)
	}

	all, applied, err := migrationState(ctx, conn)
	if err != nil {
		return err
	}

	var reverting []Migration
	for _, m := range slices.Backward(all) {
		if applied[m.Version] {
			reverting = append(reverting, m)
		}
	}
	if n > len(reverting) {
		return fmt.Errorf("cannot revert %d migrations, only %d applied", n, len(reverting))
	}

	for _, m := range reverting[:n] {
		if err := step(ctx, conn, m, down); err != nil {
			return err
		}
	}
	return nil
}

func migrationState(ctx context.Context, conn *sql.DB) ([]Migration, map[int]bool, error) {
	all, err := embeddedMigrations()
	if err != nil {
		return nil, nil, err
	}

	_, err = conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := Applied(ctx, conn)
	if err != nil {
		return nil, nil, err
	}
	applied := make(map[int]bool, len(rows))
	for _, r := range rows {
		applied[r.Version] = true
	}
	return all, applied, nil
}

// step runs one migration in dir and updates schema_migrations in the same transaction.
func step(ctx context.Context, conn *sql.DB, m Migration, dir direction) error {
	logger := logging.Component("db")
	logger.Info().
		Int("version", m.Version).
		Str("name", m.Name).
		Str("direction", string(dir)).
		Msg("migrating")

	body, record, args := m.UpSQL,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
		[]any{m.Version, m.Name, time.Now().UnixNano()}
	if dir == down {
		body, record, args = m.DownSQL, "DELETE FROM schema_migrations WHERE version = ?", []any{m.Version}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("migration %04d_%s %s: %w", m.Version, m.Name, dir, err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record migration %04d: %w", m.Version, err)
	}
	return tx.Commit()
}

// LatestVersion returns the newest embedded schema version.
func LatestVersion() (int, error) {
	all, err := embeddedMigrations()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	return all[len(all)-1].Version, nil
}

// Applied lists the migrations recorded in schema_migrations, oldest first.
func Applied(ctx context.Context, conn *sql.DB) ([]AppliedMigration, error) {
	rows, err := conn.QueryContext(ctx, "SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []AppliedMigration
	for rows.Next() {
		var (
			m  AppliedMigration
			ns int64
		)
		if err := rows.Scan(&m.Version, &m.Name, &ns); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		m.AppliedAt = time.Unix(0, ns).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
