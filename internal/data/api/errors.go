package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = comments.ErrNotFound

	// ErrNetwork is returned for transport failures, undecodable bodies and
	// any other non-2xx response.
	ErrNetwork = comments.ErrNetwork
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap maps the status onto ErrNotFound or ErrNetwork.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrNetwork
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

func newStatusError(method, path string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method: method,
		Path:   path,
		Status: resp.StatusCode,
		Detail: errorDetail(body),
	}
}

// errorDetail extracts the backend's {"detail": ...} message. FastAPI sends
// either a string or a list of validation objects with a "msg" key.
func errorDetail(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return truncate(string(body), 200)
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return truncate(string(payload.Detail), 200)
}

// truncate limits s to n display columns, cutting on a rune boundary.
func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "...")
}
