package profiler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesIndexOnLoopback(t *testing.T) {
	s := New(0)
	require.Empty(t, s.Addr())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	assert.True(t, strings.HasPrefix(s.Addr(), "127.0.0.1:"))

	for _, path := range []string{"", "cmdline"} {
		resp, err := http.Get(s.URL() + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestServer_Shutdown(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err := http.Get(s.URL())
	assert.Error(t, err)
}
