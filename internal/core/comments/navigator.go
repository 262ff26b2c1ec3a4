package comments

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
)

// Direction selects which way Navigate moves the cursor.
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	switch d {
	case Previous:
		return "previous"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// State is a point-in-time view of a Navigator for presenters.
type State struct {
	Open    bool
	Loading bool
	Current *Detail
	Cursor  int
	Loaded  int
	Pending int
}

// HasPrevious reports whether a previous comment is available.
func (s State) HasPrevious() bool {
	return s.Cursor > 0
}

// HasNext reports whether a further comment is loaded or still queued.
func (s State) HasNext() bool {
	return s.Cursor < s.Loaded-1 || s.Pending > 0
}

// Total is the number of comments reachable in this session, fetched or not.
func (s State) Total() int {
	return s.Loaded + s.Pending
}

// Position formats the cursor as "n of m". Empty when the navigator is closed.
func (s State) Position() string {
	if !s.Open || s.Loaded == 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d", s.Cursor+1, s.Total())
}

// Navigator steps through the comments referenced by one entry. Comments are
// fetched lazily as the cursor moves forward, and each id is fetched at most
// once per session. Backward moves never fetch.
//
// A session starts with Open and ends with Close. Results of fetches that
// resolve after the session ended are discarded.
//
// Navigator is safe for concurrent use. Its lock is never held across a fetch;
// while a fetch is in flight, Navigate calls are ignored.
type Navigator struct {
	svc    Service
	months []string
	logger zerolog.Logger

	mu         sync.Mutex
	loaded     []Detail
	cursor     int
	pending    []string
	open       bool
	fetching   bool
	generation uint64
}

// NewNavigator creates a Navigator that fetches from svc within the given month scope.
func NewNavigator(svc Service, months []string) *Navigator {
	return &Navigator{
		svc:    svc,
		months: slices.Clone(months),
		logger: logging.Scoped("navigator", "months", strings.Join(months, ",")),
	}
}

// Months returns the month scope passed to every fetch.
func (n *Navigator) Months() []string {
	return slices.Clone(n.months)
}

// Open starts a new session showing commentID first. allIDs is the ordered set
// of comment ids referenced by the entry; every occurrence of commentID is
// removed from it and the remainder is queued for lazy fetching.
//
// Any previous session is discarded. If the fetch fails the navigator stays
// closed and the error, a *FetchError, is returned.
func (n *Navigator) Open(ctx context.Context, commentID string, allIDs []string) error {
	if strings.TrimSpace(commentID) == "" {
		return ErrEmptyCommentID
	}

	n.mu.Lock()
	n.resetLocked()
	n.generation++
	gen := n.generation
	n.fetching = true
	n.mu.Unlock()

	detail, err := n.svc.GetCommentDetail(ctx, commentID, n.months)

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.generation {
		n.logger.Debug().Str("comment_id", commentID).Msg("discarding open result for stale session")
		return ErrSessionClosed
	}
	n.fetching = false

	if err != nil {
		n.logger.Warn().Err(err).Str("comment_id", commentID).Msg("open failed")
		return &FetchError{ID: commentID, Err: err}
	}

	n.loaded = []Detail{detail}
	n.cursor = 0
	n.pending = pendingFrom(commentID, allIDs)
	n.open = true

	n.logger.Debug().
		Str("comment_id", commentID).
		Int("pending", len(n.pending)).
		Msg("session opened")
	return nil
}

// Navigate moves the cursor. It reports whether the visible comment changed.
//
// Moving next past the last loaded comment fetches the head of the pending
// queue. A failed fetch leaves the cursor where it was and does not re-queue
// the id; the comment is skipped for the rest of the session.
func (n *Navigator) Navigate(ctx context.Context, dir Direction) (bool, error) {
	n.mu.Lock()

	if !n.open || n.fetching {
		n.mu.Unlock()
		return false, nil
	}
	if len(n.loaded) <= 1 && len(n.pending) == 0 {
		n.mu.Unlock()
		return false, nil
	}

	switch dir {
	case Previous:
		defer n.mu.Unlock()
		if n.cursor == 0 {
			return false, nil
		}
		n.cursor--
		return true, nil

	case Next:
		if n.cursor < len(n.loaded)-1 {
			n.cursor++
			n.mu.Unlock()
			return true, nil
		}
		if len(n.pending) == 0 {
			n.mu.Unlock()
			return false, nil
		}
		return n.fetchNextLocked(ctx)

	default:
		n.mu.Unlock()
		return false, fmt.Errorf("unknown direction %v", dir)
	}
}

// fetchNextLocked dequeues and fetches the next pending id. It is entered with
// n.mu held and releases it for the duration of the fetch.
func (n *Navigator) fetchNextLocked(ctx context.Context) (bool, error) {
	id := n.pending[0]
	n.pending = n.pending[1:]
	n.fetching = true
	gen := n.generation
	n.mu.Unlock()

	detail, err := n.svc.GetCommentDetail(ctx, id, n.months)

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.generation {
		n.logger.Debug().Str("comment_id", id).Msg("discarding fetch result for stale session")
		return false, ErrSessionClosed
	}
	n.fetching = false

	if err != nil {
		n.logger.Warn().Err(err).Str("comment_id", id).Msg("skipping comment after failed fetch")
		return false, &FetchError{ID: id, Err: err}
	}

	n.loaded = append(n.loaded, detail)
	n.cursor = len(n.loaded) - 1
	return true, nil
}

// Close ends the session and drops every loaded comment.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.resetLocked()
	n.generation++
}

func (n *Navigator) resetLocked() {
	n.open = false
	n.fetching = false
	n.loaded = nil
	n.cursor = 0
	n.pending = nil
}

// Snapshot returns the current state.
func (n *Navigator) Snapshot() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := State{
		Open:    n.open,
		Loading: n.fetching,
		Cursor:  n.cursor,
		Loaded:  len(n.loaded),
		Pending: len(n.pending),
	}
	if n.open && n.cursor < len(n.loaded) {
		current := n.loaded[n.cursor]
		s.Current = &current
	}
	return s
}

// Current returns the comment under the cursor, or nil when closed.
func (n *Navigator) Current() *Detail {
	return n.Snapshot().Current
}

// HasPrevious reports whether Navigate(Previous) would move the cursor.
func (n *Navigator) HasPrevious() bool {
	return n.Snapshot().HasPrevious()
}

// HasNext reports whether Navigate(Next) could move the cursor.
func (n *Navigator) HasNext() bool {
	return n.Snapshot().HasNext()
}

// IsLoading reports whether a fetch is in flight.
func (n *Navigator) IsLoading() bool {
	return n.Snapshot().Loading
}

// IsOpen reports whether a session is active.
func (n *Navigator) IsOpen() bool {
	return n.Snapshot().Open
}

// PendingIDs returns the ids still queued for fetching, in fetch order.
func (n *Navigator) PendingIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.pending)
}

// pendingFrom removes every occurrence of opened from all and de-duplicates
// the rest, keeping first-seen order.
func pendingFrom(opened string, all []string) []string {
	if len(all) <= 1 {
		return nil
	}

	seen := make(map[string]struct{}, len(all))
	pending := make([]string, 0, len(all)-1)
	for _, id := range all {
		if id == opened || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		pending = append(pending, id)
	}
	return pending
}
