// Package comments defines backend comment records and the Navigator that pages
// through the comments referenced by a single curation entry.
package comments

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by a Service when the comment id is unknown
	// for the requested month scope.
	ErrNotFound = errors.New("comment not found")

	// ErrNetwork is returned by a Service when the request could not complete.
	ErrNetwork = errors.New("comment service unavailable")

	// ErrEmptyCommentID is returned when opening a navigator without an id.
	ErrEmptyCommentID = errors.New("comment id is required")

	// ErrSessionClosed is returned when a fetch resolves after the navigator
	// session it belonged to was closed or replaced. The result was discarded.
	ErrSessionClosed = errors.New("comment session closed")
)

// Detail is a comment record as returned by the backend.
type Detail struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	CreatedUTC  time.Time `json:"created_utc"`
	ThreadID    string    `json:"thread_id,omitempty"`
	ThreadTitle string    `json:"thread_title,omitempty"`
	URL         string    `json:"url,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
}

// Service fetches comment details from the backend.
type Service interface {
	// GetCommentDetail returns the comment with the given id, searching the
	// given months. Errors wrap ErrNotFound or ErrNetwork.
	GetCommentDetail(ctx context.Context, id string, months []string) (Detail, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, id string, months []string) (Detail, error)

// GetCommentDetail calls f.
func (f ServiceFunc) GetCommentDetail(ctx context.Context, id string, months []string) (Detail, error) {
	return f(ctx, id, months)
}

// FetchError reports a failed comment fetch. It unwraps to the Service error,
// so errors.Is(err, ErrNotFound) and errors.Is(err, ErrNetwork) work through it.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch comment %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the fetch failed because the comment does not exist.
func (e *FetchError) NotFound() bool {
	return errors.Is(e.Err, ErrNotFound)
}
