package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

func newTestJournal(t *testing.T) *JournalStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewJournalStore(database)
}

func TestJournalStore_RecordAssignsIDAndTime(t *testing.T) {
	store := newTestJournal(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	got, err := store.Record(context.Background(), curation.JournalEntry{
		Action:   curation.ActionValidate,
		Field:    curation.FieldRazor,
		Original: "Rex Ambassador",
		Matched:  `{"brand":"Rex","model":"Ambassador"}`,
		Months:   []string{"2025-05"},
		Success:  true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixed, got.CreatedAt)

	loaded, err := store.Get(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, loaded)
}

func TestJournalStore_RecordKeepsProvidedID(t *testing.T) {
	store := newTestJournal(t)

	got, err := store.Record(context.Background(), curation.JournalEntry{
		ID:       "fixed-id",
		Action:   curation.ActionMarkUnmatched,
		Field:    curation.FieldBlade,
		Original: "mystery blade",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)
	assert.Equal(t, "{}", got.Matched)

	loaded, err := store.Get(context.Background(), "fixed-id")
	require.NoError(t, err)
	assert.Nil(t, loaded.Months)
	assert.False(t, loaded.Success)
}

func TestJournalStore_GetMissing(t *testing.T) {
	store := newTestJournal(t)

	_, err := store.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestJournalStore_ListNewestFirst(t *testing.T) {
	store := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, original := range []string{"first", "second", "third"} {
		_, err := store.Record(ctx, curation.JournalEntry{
			Action:    curation.ActionValidate,
			Field:     curation.FieldSoap,
			Original:  original,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Original)
	assert.Equal(t, "first", all[2].Original)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "second", limited[1].Original)
}

func TestJournalStore_ListEmpty(t *testing.T) {
	store := newTestJournal(t)

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalStore_Prune(t *testing.T) {
	store := newTestJournal(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for _, age := range []time.Duration{time.Hour, 10 * 24 * time.Hour, 40 * 24 * time.Hour, 90 * 24 * time.Hour} {
		_, err := store.Record(ctx, curation.JournalEntry{
			Action:    curation.ActionValidate,
			Field:     curation.FieldBrush,
			Original:  age.String(),
			CreatedAt: now.Add(-age),
		})
		require.NoError(t, err)
	}

	removed, err := store.Prune(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, left, 2)

	removed, err = store.Prune(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
