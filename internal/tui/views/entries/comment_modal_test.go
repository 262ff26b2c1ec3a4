package entries

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
)

func openModal(t *testing.T, details map[string]comments.Detail, ids ...string) CommentModal {
	t.Helper()
	svc := comments.ServiceFunc(func(_ context.Context, id string, _ []string) (comments.Detail, error) {
		d, ok := details[id]
		if !ok {
			return comments.Detail{}, comments.ErrNotFound
		}
		return d, nil
	})
	nav := comments.NewNavigator(svc, testMonths)
	require.NoError(t, nav.Open(context.Background(), ids[0], ids))
	return NewCommentModal(nav, "tech", 100, 30)
}

func TestCommentModal_RendersBody(t *testing.T) {
	m := openModal(t, map[string]comments.Detail{
		"a": {ID: "a", Author: "alice", Body: "Shaved with a **Tech** &amp; loved it"},
	}, "a")

	out := ansi.Strip(m.Overlay("", 100, 30))
	assert.Contains(t, out, "Tech & loved it")
	assert.NotContains(t, out, "&amp;")
	assert.Contains(t, out, "1 of 1")
}

func TestCommentModal_HandleNavigatedIgnoresOtherSessions(t *testing.T) {
	details := map[string]comments.Detail{"a": {ID: "a"}, "b": {ID: "b"}}
	m := openModal(t, details, "a", "b")
	other := openModal(t, details, "a", "b")

	m.HandleNavigated(commentNavigatedMsg{nav: other.Navigator(), err: errors.New("boom")})
	assert.Empty(t, m.ErrorText())

	m.HandleNavigated(commentNavigatedMsg{nav: m.Navigator(), err: comments.ErrSessionClosed})
	assert.Empty(t, m.ErrorText(), "closed sessions are silent")

	m.HandleNavigated(commentNavigatedMsg{
		nav: m.Navigator(),
		err: &comments.FetchError{ID: "b", Err: comments.ErrNetwork},
	})
	assert.Equal(t, "Could not load comment b: comment service unavailable, skipped", m.ErrorText())
}

func TestCommentModal_NextClearsError(t *testing.T) {
	m := openModal(t, map[string]comments.Detail{"a": {ID: "a"}, "c": {ID: "c"}}, "a", "b", "c")

	msg := findMsg[commentNavigatedMsg](t, m.Next(context.Background()))
	m.HandleNavigated(msg)
	assert.Contains(t, m.ErrorText(), "Comment b not found")

	msg = findMsg[commentNavigatedMsg](t, m.Next(context.Background()))
	assert.Empty(t, m.ErrorText())
	m.HandleNavigated(msg)
	assert.Equal(t, "c", m.Navigator().Current().ID)
	assert.Equal(t, "2 of 2", m.Navigator().Snapshot().Position())
}

func TestCommentModal_CopyLinkWithoutURL(t *testing.T) {
	m := openModal(t, map[string]comments.Detail{"a": {ID: "a"}}, "a")
	called := false
	m.copy = func(string) error {
		called = true
		return nil
	}

	m.CopyLink()
	assert.False(t, called)
	assert.Contains(t, ansi.Strip(m.Overlay("", 100, 30)), "No link to copy")
}

func TestCommentModal_CloseEndsSession(t *testing.T) {
	m := openModal(t, map[string]comments.Detail{"a": {ID: "a"}}, "a")
	m.Close()
	assert.False(t, m.Navigator().IsOpen())
	assert.Nil(t, m.Next(context.Background()))
}

func TestTrimDecorative(t *testing.T) {
	in := "\n───\n\x1b[38;5;240m━━━━\x1b[0m\nhello\n\nworld\n----\n"
	assert.Equal(t, "hello\n\nworld", trimDecorative(in))
}

func TestIsDecorativeLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"────", true},
		{"\x1b[1m====\x1b[0m", true},
		{"- item", false},
		{"text", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDecorativeLine(tt.line), "%q", tt.line)
	}
}
