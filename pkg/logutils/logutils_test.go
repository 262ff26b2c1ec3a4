package logutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	closer()
}

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "curator.log")

	l, closer, err := New("info", file)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("comment_id", "abc").Msg("shown")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "abc", entry["comment_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_AppendKeepsContent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "curator.log")
	require.NoError(t, os.WriteFile(file, []byte("{\"message\":\"old\"}\n"), 0o644))

	l, closer, err := New("info", file, WithAppend())
	require.NoError(t, err)
	l.Info().Msg("new")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "old")
	assert.Contains(t, string(data), "new")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	l, closer, err := New("debug", "", WithConsole(&buf))
	require.NoError(t, err)
	defer closer()

	l.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), `"message"`)
}

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("tag", "x")
}

func TestNew_Hooks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "curator.log")

	l, closer, err := New("info", file, WithHook(tagHook{}))
	require.NoError(t, err)
	l.Info().Msg("hello")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tag":"x"`)
}
