package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

// JournalStore implements curation.Journal using SQLite.
type JournalStore struct {
	db  *db.DB
	now func() time.Time
}

var _ curation.Journal = (*JournalStore)(nil)

// NewJournalStore creates a new SQLite-backed correction journal.
func NewJournalStore(db *db.DB) *JournalStore {
	return &JournalStore{db: db, now: time.Now}
}

// Record stores an entry. ID and CreatedAt are filled in when unset.
func (s *JournalStore) Record(ctx context.Context, e curation.JournalEntry) (curation.JournalEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if e.Matched == "" {
		e.Matched = "{}"
	}

	months, err := json.Marshal(nonNil(e.Months))
	if err != nil {
		return curation.JournalEntry{}, fmt.Errorf("failed to encode months: %w", err)
	}

	err = retryBusy(ctx, func() error {
		_, err := s.db.Conn().ExecContext(ctx, `
			INSERT INTO corrections (id, action, field, original, matched, months, success, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, string(e.Action), string(e.Field), e.Original, e.Matched, string(months),
			boolToInt(e.Success), e.Message, e.CreatedAt.UnixNano(),
		)
		return err
	})
	if err != nil {
		return curation.JournalEntry{}, fmt.Errorf("failed to record correction: %w", err)
	}

	return e, nil
}

// List returns the most recent entries, newest first. limit <= 0 returns all.
func (s *JournalStore) List(ctx context.Context, limit int) ([]curation.JournalEntry, error) {
	query := `SELECT id, action, field, original, matched, months, success, message, created_at
		FROM corrections ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []curation.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}

	return entries, nil
}

// Get returns a single entry by id.
func (s *JournalStore) Get(ctx context.Context, id string) (curation.JournalEntry, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, action, field, original, matched, months, success, message, created_at
		FROM corrections WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err != nil {
		if IsNotFoundError(err) {
			return curation.JournalEntry{}, fmt.Errorf("correction %s: %w", id, err)
		}
		return curation.JournalEntry{}, err
	}
	return e, nil
}

// Prune removes entries older than the given age.
func (s *JournalStore) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan).UnixNano()

	var affected int64
	err := retryBusy(ctx, func() error {
		res, err := s.db.Conn().ExecContext(ctx, "DELETE FROM corrections WHERE created_at < ?", cutoff)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune corrections: %w", err)
	}

	return int(affected), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (curation.JournalEntry, error) {
	var (
		e       curation.JournalEntry
		action  string
		field   string
		months  string
		success int
		created int64
	)

	err := row.Scan(&e.ID, &action, &field, &e.Original, &e.Matched, &months, &success, &e.Message, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return e, err
		}
		return e, fmt.Errorf("failed to scan correction: %w", err)
	}

	e.Action = curation.Action(action)
	e.Field = curation.Field(field)
	e.Success = success != 0
	e.CreatedAt = time.Unix(0, created).UTC()

	if err := json.Unmarshal([]byte(months), &e.Months); err != nil {
		return e, fmt.Errorf("failed to decode months for %s: %w", e.ID, err)
	}
	if len(e.Months) == 0 {
		e.Months = nil
	}

	return e, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
