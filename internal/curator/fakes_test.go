package curator

import (
	"context"
	"sync"
	"time"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

type fakeBackend struct {
	mu sync.Mutex

	months      []string
	monthsErr   error
	monthsCalls int

	analyses    map[curation.Field]curation.Analysis
	analyzeErr  map[curation.Field]error
	analyzeHook func(ctx context.Context, f curation.Field)

	submitResult curation.CorrectionResult
	submitErr    error
	submitted    []curation.Correction

	details map[string]comments.Detail
}

func (f *fakeBackend) AvailableMonths(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monthsCalls++
	return f.months, f.monthsErr
}

func (f *fakeBackend) Analyze(ctx context.Context, req curation.AnalysisRequest) (curation.Analysis, error) {
	if f.analyzeHook != nil {
		f.analyzeHook(ctx, req.Field)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.analyzeErr[req.Field]; err != nil {
		return curation.Analysis{}, err
	}
	res := f.analyses[req.Field]
	res.Field = req.Field
	res.Months = req.Months
	return res, nil
}

func (f *fakeBackend) Submit(_ context.Context, c curation.Correction) (curation.CorrectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, c)
	return f.submitResult, f.submitErr
}

func (f *fakeBackend) GetCommentDetail(_ context.Context, id string, _ []string) (comments.Detail, error) {
	d, ok := f.details[id]
	if !ok {
		return comments.Detail{}, comments.ErrNotFound
	}
	return d, nil
}

type memJournal struct {
	entries   []curation.JournalEntry
	recordErr error
	pruned    time.Duration
}

func (m *memJournal) Record(_ context.Context, e curation.JournalEntry) (curation.JournalEntry, error) {
	if m.recordErr != nil {
		return curation.JournalEntry{}, m.recordErr
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memJournal) List(_ context.Context, limit int) ([]curation.JournalEntry, error) {
	if limit > 0 && limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func (m *memJournal) Prune(_ context.Context, olderThan time.Duration) (int, error) {
	m.pruned = olderThan
	n := len(m.entries)
	m.entries = nil
	return n, nil
}
