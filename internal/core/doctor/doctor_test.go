package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/data/db"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Run(context.Context) Result {
	return Result{Name: c.name, Items: c.items}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{pass("x", ""), warn("y", "")}},
		staticCheck{name: "b", items: []CheckItem{fail("z", ""), pass("w", "")}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)

	tally := Summary(results)
	assert.Equal(t, Tally{Passed: 2, Warned: 1, Failed: 1}, tally)
	assert.False(t, tally.Healthy())
	assert.True(t, Summary(results[:0]).Healthy())
}

func statuses(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, item := range r.Items {
		out[item.Label] = item.Status
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	t.Run("missing file warns", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()

		r := NewConfigCheck(filepath.Join(t.TempDir(), "config.yaml"), &cfg).Run(context.Background())
		assert.Equal(t, map[string]Status{"Config file": StatusWarn, "Values": StatusPass}, statuses(r))
	})

	t.Run("present file passes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://localhost:8000\n"), 0o644))
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()

		r := NewConfigCheck(path, &cfg).Run(context.Background())
		assert.Equal(t, map[string]Status{"Config file": StatusPass, "Values": StatusPass}, statuses(r))
	})

	t.Run("invalid values fail per field", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Analysis.Field = "aftershave"

		r := NewConfigCheck(filepath.Join(t.TempDir(), "config.yaml"), &cfg).Run(context.Background())
		assert.Equal(t, StatusFail, statuses(r)["analysis.field"])
	})
}

func TestDatabaseCheck(t *testing.T) {
	t.Run("nil database fails", func(t *testing.T) {
		r := NewDatabaseCheck(nil).Run(context.Background())
		assert.Equal(t, map[string]Status{"Connection": StatusFail}, statuses(r))
	})

	t.Run("migrated database passes", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = database.Close() })

		r := NewDatabaseCheck(database).Run(context.Background())
		assert.Equal(t, map[string]Status{"Connection": StatusPass, "Schema": StatusPass}, statuses(r))
	})

	t.Run("rolled back schema fails", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = database.Close() })
		require.NoError(t, db.MigrateDown(context.Background(), database.Conn(), 1))

		r := NewDatabaseCheck(database).Run(context.Background())
		assert.Equal(t, StatusFail, statuses(r)["Schema"])
	})
}

type monthLister struct {
	months []string
	err    error
}

func (m monthLister) AvailableMonths(context.Context) ([]string, error) {
	return m.months, m.err
}

func TestBackendCheck(t *testing.T) {
	available := []string{"2024-12", "2025-01", "2025-02"}

	tests := []struct {
		name   string
		svc    monthLister
		months []string
		want   map[string]Status
	}{
		{
			name: "unreachable",
			svc:  monthLister{err: errors.New("connection refused")},
			want: map[string]Status{"API": StatusFail},
		},
		{
			name:   "scope resolves",
			svc:    monthLister{months: available},
			months: []string{"2025-*"},
			want:   map[string]Status{"API": StatusPass, "Month scope": StatusPass},
		},
		{
			name:   "scope matches nothing",
			svc:    monthLister{months: available},
			months: []string{"2023-*"},
			want:   map[string]Status{"API": StatusPass, "Month scope": StatusFail},
		},
		{
			name: "no scope configured",
			svc:  monthLister{months: available},
			want: map[string]Status{"API": StatusPass, "Month scope": StatusWarn},
		},
		{
			name:   "empty backend",
			svc:    monthLister{},
			months: []string{"2025-01"},
			want:   map[string]Status{"API": StatusWarn, "Month scope": StatusPass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBackendCheck(tt.svc, "http://localhost:8000", tt.months, 0).Run(context.Background())
			assert.Equal(t, tt.want, statuses(r))
		})
	}
}
