package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
)

var _ comments.Service = (*Client)(nil)

// commentResponse is the wire shape of /api/comment/{id}. created_utc arrives
// as RFC 3339, as a naive "YYYY-MM-DD HH:MM:SS" string, or as epoch seconds.
type commentResponse struct {
	ID          string          `json:"id"`
	Author      string          `json:"author"`
	Body        string          `json:"body"`
	CreatedUTC  json.RawMessage `json:"created_utc"`
	ThreadID    string          `json:"thread_id"`
	ThreadTitle string          `json:"thread_title"`
	URL         string          `json:"url"`
	FilePath    string          `json:"file_path"`
}

// GetCommentDetail fetches one comment, searching the given months.
func (c *Client) GetCommentDetail(ctx context.Context, id string, months []string) (comments.Detail, error) {
	if strings.TrimSpace(id) == "" {
		return comments.Detail{}, comments.ErrEmptyCommentID
	}

	var query url.Values
	if len(months) > 0 {
		query = url.Values{"months": {strings.Join(months, ",")}}
	}

	var resp commentResponse
	if err := c.do(ctx, http.MethodGet, "/api/comment/"+url.PathEscape(id), query, nil, &resp); err != nil {
		return comments.Detail{}, err
	}

	created, err := parseCreated(resp.CreatedUTC)
	if err != nil {
		return comments.Detail{}, fmt.Errorf("%w: comment %s: %w", ErrNetwork, id, err)
	}

	detail := comments.Detail{
		ID:          resp.ID,
		Author:      resp.Author,
		Body:        resp.Body,
		CreatedUTC:  created,
		ThreadID:    resp.ThreadID,
		ThreadTitle: resp.ThreadTitle,
		URL:         resp.URL,
		FilePath:    resp.FilePath,
	}
	if detail.ID == "" {
		detail.ID = id
	}
	return detail, nil
}

var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

func parseCreated(raw json.RawMessage) (time.Time, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, nil
	}

	if s[0] != '"' {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid created_utc %s", s)
		}
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC(), nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return time.Time{}, fmt.Errorf("invalid created_utc: %w", err)
	}
	if str == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, str, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_utc %q", str)
}
