package curator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

func TestAnalyzer_AnalyzeFieldsKeepsOrder(t *testing.T) {
	backend := &fakeBackend{
		analyses: map[curation.Field]curation.Analysis{
			curation.FieldRazor: {TotalMatches: 1},
			curation.FieldBlade: {TotalMatches: 2},
			curation.FieldSoap:  {TotalMatches: 3},
		},
		// Slow the first field so completion order differs from input order.
		analyzeHook: func(_ context.Context, f curation.Field) {
			if f == curation.FieldRazor {
				time.Sleep(20 * time.Millisecond)
			}
		},
	}
	a := NewAnalyzer(backend)
	a.SetConcurrency(3)

	fields := []curation.Field{curation.FieldRazor, curation.FieldBlade, curation.FieldSoap}
	got, err := a.AnalyzeFields(context.Background(), fields, curation.AnalysisRequest{Months: []string{"2025-01"}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, f := range fields {
		assert.Equal(t, f, got[i].Field)
		assert.Equal(t, i+1, got[i].TotalMatches)
		assert.Equal(t, []string{"2025-01"}, got[i].Months)
	}
}

func TestAnalyzer_AnalyzeFieldsRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	backend := &fakeBackend{
		analyzeHook: func(context.Context, curation.Field) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		},
	}
	a := NewAnalyzer(backend)
	a.SetConcurrency(2)

	_, err := a.AnalyzeFields(context.Background(), curation.Fields, curation.AnalysisRequest{})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzer_AnalyzeFieldsFirstErrorCancels(t *testing.T) {
	boom := errors.New("blade analysis failed")
	var cancelled atomic.Bool

	backend := &fakeBackend{
		analyzeErr: map[curation.Field]error{curation.FieldBlade: boom},
		analyzeHook: func(ctx context.Context, f curation.Field) {
			if f != curation.FieldRazor {
				return
			}
			select {
			case <-ctx.Done():
				cancelled.Store(true)
			case <-time.After(2 * time.Second):
			}
		},
	}
	a := NewAnalyzer(backend)
	a.SetConcurrency(2)

	_, err := a.AnalyzeFields(context.Background(),
		[]curation.Field{curation.FieldRazor, curation.FieldBlade},
		curation.AnalysisRequest{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "analyze blade")
	assert.True(t, cancelled.Load(), "sibling request should see cancellation")
}

func TestAnalyzer_SetConcurrencyFloor(t *testing.T) {
	a := NewAnalyzer(&fakeBackend{})
	a.SetConcurrency(0)
	assert.Equal(t, 1, a.concurrency)
}

func TestAnalyzer_ResolveMonths(t *testing.T) {
	backend := &fakeBackend{months: []string{"2024-12", "2025-01", "2025-02"}}
	a := NewAnalyzer(backend)

	got, err := a.ResolveMonths(context.Background(), []string{"2025-*", "2023-06"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-06", "2025-01", "2025-02"}, got)
	assert.Equal(t, 1, backend.monthsCalls)
}

func TestAnalyzer_ResolveMonthsLiteralSkipsLookup(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAnalyzer(backend)

	got, err := a.ResolveMonths(context.Background(), []string{"2025-03", "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01", "2025-03"}, got)
	assert.Zero(t, backend.monthsCalls)
}

func TestAnalyzer_ResolveMonthsErrors(t *testing.T) {
	backend := &fakeBackend{monthsErr: errors.New("offline")}
	a := NewAnalyzer(backend)

	_, err := a.ResolveMonths(context.Background(), []string{"2025-*"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")

	backend.monthsErr = nil
	backend.months = []string{"2024-01"}
	_, err = a.ResolveMonths(context.Background(), []string{"2025-*"})
	require.ErrorIs(t, err, curation.ErrNoMonths)
}
