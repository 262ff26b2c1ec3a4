package curation

import (
	"context"
	"time"
)

// JournalEntry records a correction submitted from this machine.
type JournalEntry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Field     Field     `json:"field"`
	Original  string    `json:"original"`
	Matched   string    `json:"matched,omitempty"` // JSON-encoded matched object
	Months    []string  `json:"months,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal persists submitted corrections locally.
type Journal interface {
	// Record stores an entry, assigning ID and CreatedAt when unset.
	Record(ctx context.Context, e JournalEntry) (JournalEntry, error)

	// List returns the most recent entries, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]JournalEntry, error)

	// Prune removes entries older than the given age and returns how many were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
}
