package iojson

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, item{Name: "a", Count: 2}))

	var got item
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, item{Name: "a", Count: 2}, got)
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestMarshalError(t *testing.T) {
	s := MarshalError(`bad "input"`, map[string]any{"field": "razor"})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(s), &got))
	assert.Equal(t, `bad "input"`, got.Message)
	assert.Equal(t, "razor", got.Data["field"])
}

func TestFileReader_ReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","count":1}`), 0o644))

	fr := &FileReader[item]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, item{Name: "x", Count: 1}, got)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[item]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileReader_ReadAll(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []item
		wantErr bool
	}{
		{name: "single object", input: `{"name":"a"}`, want: []item{{Name: "a"}}},
		{name: "array", input: ` [{"name":"a"},{"name":"b","count":3}]`, want: []item{{Name: "a"}, {Name: "b", Count: 3}}},
		{name: "empty array", input: `[]`, want: []item{}},
		{name: "empty input", input: "  \n", wantErr: true},
		{name: "bad json", input: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &FileReader[item]{Stdin: strings.NewReader(tt.input)}
			got, err := fr.ReadAll()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileReader_Flag(t *testing.T) {
	fr := &FileReader[item]{}
	flag := fr.Flag()
	assert.Equal(t, "file", flag.Name)
	assert.Equal(t, []string{"f"}, flag.Aliases)
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteLine(&out, item{Name: "a", Count: 1}))
	require.NoError(t, WriteLine(&out, item{Name: "b", Count: 2}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"name":"a","count":1}`, lines[0])
	assert.Equal(t, `{"name":"b","count":2}`, lines[1])
}

func TestWriteLine_MarshalFailure(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, WriteLine(&out, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())
}
