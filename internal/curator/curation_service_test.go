package curator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

func validCorrection() curation.Correction {
	return curation.Correction{
		Action:   curation.ActionValidate,
		Field:    curation.FieldRazor,
		Original: "Rex Ambassador",
		Matched:  map[string]any{"brand": "Rex", "model": "Ambassador"},
		Months:   []string{"2025-05"},
	}
}

func TestCurationService_SubmitSuccessIsJournaled(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: true, Affected: 3, Message: "ok"}}
	journal := &memJournal{}
	svc := NewCurationService(backend, journal)

	res, err := svc.Submit(context.Background(), validCorrection())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Affected)

	require.Len(t, backend.submitted, 1)
	require.Len(t, journal.entries, 1)

	entry := journal.entries[0]
	assert.True(t, entry.Success)
	assert.Equal(t, curation.ActionValidate, entry.Action)
	assert.Equal(t, "Rex Ambassador", entry.Original)
	assert.JSONEq(t, `{"brand":"Rex","model":"Ambassador"}`, entry.Matched)
	assert.Equal(t, []string{"2025-05"}, entry.Months)
	assert.Equal(t, "ok", entry.Message)
}

func TestCurationService_SubmitInvalidNeverReachesBackend(t *testing.T) {
	backend := &fakeBackend{}
	journal := &memJournal{}
	svc := NewCurationService(backend, journal)

	c := validCorrection()
	c.Matched = nil

	_, err := svc.Submit(context.Background(), c)
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Empty(t, backend.submitted)
	assert.Empty(t, journal.entries)
}

func TestCurationService_BackendErrorIsJournaled(t *testing.T) {
	boom := errors.New("backend down")
	backend := &fakeBackend{submitErr: boom}
	journal := &memJournal{}
	svc := NewCurationService(backend, journal)

	_, err := svc.Submit(context.Background(), validCorrection())
	require.ErrorIs(t, err, boom)

	require.Len(t, journal.entries, 1)
	assert.False(t, journal.entries[0].Success)
	assert.Contains(t, journal.entries[0].Message, "backend down")
}

func TestCurationService_RejectedResultIsError(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: false, Message: "already confirmed"}}
	journal := &memJournal{}
	svc := NewCurationService(backend, journal)

	res, err := svc.Submit(context.Background(), validCorrection())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already confirmed")
	assert.False(t, res.Success)
	require.Len(t, journal.entries, 1)
	assert.False(t, journal.entries[0].Success)
}

func TestCurationService_JournalFailureDoesNotFailSubmit(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: true}}
	journal := &memJournal{recordErr: errors.New("disk full")}
	svc := NewCurationService(backend, journal)

	_, err := svc.Submit(context.Background(), validCorrection())
	assert.NoError(t, err)
}

func TestCurationService_NilJournal(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: true}}
	svc := NewCurationService(backend, nil)

	_, err := svc.Submit(context.Background(), validCorrection())
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	n, err := svc.Prune(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCurationService_SubmitAll(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: true}}
	svc := NewCurationService(backend, &memJournal{})

	bad := validCorrection()
	bad.Original = ""

	results, errs := svc.SubmitAll(context.Background(), []curation.Correction{validCorrection(), bad, validCorrection()})
	require.Len(t, results, 3)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.NoError(t, errs[2])
	assert.Len(t, backend.submitted, 2)
}

func TestCurationService_SubmitAllCancelled(t *testing.T) {
	backend := &fakeBackend{submitResult: curation.CorrectionResult{Success: true}}
	svc := NewCurationService(backend, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := svc.SubmitAll(ctx, []curation.Correction{validCorrection()})
	require.ErrorIs(t, errs[0], context.Canceled)
	assert.Empty(t, backend.submitted)
}

func TestCurationService_Prune(t *testing.T) {
	journal := &memJournal{entries: []curation.JournalEntry{{ID: "a"}, {ID: "b"}}}
	svc := NewCurationService(&fakeBackend{}, journal)

	_, err := svc.Prune(context.Background(), 0)
	require.Error(t, err)

	n, err := svc.Prune(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 24*time.Hour, journal.pruned)
}
