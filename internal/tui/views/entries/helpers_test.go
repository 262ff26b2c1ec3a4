package entries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/tuitest"
)

var testMonths = []string{"2025-01", "2025-02"}

type fakeBackend struct {
	mu        sync.Mutex
	analyses  map[curation.Field]curation.Analysis
	details   map[string]comments.Detail
	submitErr error
	submitted []curation.Correction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		analyses: map[curation.Field]curation.Analysis{
			curation.FieldRazor: {
				TotalMatches:    10,
				TotalMismatches: 2,
				Items: []curation.Entry{
					{
						Original:   "tech",
						Matched:    map[string]any{"brand": "Gillette", "model": "Tech"},
						MatchType:  "regex",
						Count:      3,
						CommentIDs: []string{"c1", "c2", "c1"},
					},
					{Original: "mystery razor", Count: 1},
				},
			},
			curation.FieldBlade: {
				TotalMatches: 4,
				Items:        []curation.Entry{{Original: "astra sp", Count: 4}},
			},
		},
		details: map[string]comments.Detail{
			"c1": {
				ID: "c1", Author: "alice", Body: "Used the **Tech** today.",
				CreatedUTC:  time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC),
				ThreadTitle: "Friday SOTD Thread",
				URL:         "https://www.reddit.com/r/Wetshaving/comments/abc/_/c1",
			},
			"c2": {ID: "c2", Author: "bob", Body: "Tech again."},
		},
	}
}

func (f *fakeBackend) AvailableMonths(context.Context) ([]string, error) {
	return testMonths, nil
}

func (f *fakeBackend) Analyze(_ context.Context, req curation.AnalysisRequest) (curation.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.analyses[req.Field]
	if !ok {
		return curation.Analysis{}, errors.New("analysis unavailable")
	}
	a.Field = req.Field
	a.Months = req.Months
	return a, nil
}

func (f *fakeBackend) Submit(_ context.Context, c curation.Correction) (curation.CorrectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, c)
	if f.submitErr != nil {
		return curation.CorrectionResult{}, f.submitErr
	}
	return curation.CorrectionResult{Success: true, Affected: 1}, nil
}

func (f *fakeBackend) GetCommentDetail(_ context.Context, id string, _ []string) (comments.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return comments.Detail{}, comments.ErrNotFound
	}
	return d, nil
}

func newTestApp(t *testing.T, backend *fakeBackend) *curator.App {
	t.Helper()
	cfg := config.DefaultConfig()
	return curator.NewApp(backend, nil, &cfg, nil)
}

func keyMsg(s string) tea.Msg {
	return tuitest.Key(s)
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	m, ok := tuitest.Find[T](cmd)
	if !ok {
		require.Failf(t, "message not produced", "%T", m)
	}
	return m
}
