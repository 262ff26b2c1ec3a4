package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
)

// CurationService submits corrections and keeps the local journal.
type CurationService struct {
	backend curation.Service
	journal curation.Journal
	logger  zerolog.Logger
}

// NewCurationService creates a CurationService. journal may be nil, in which
// case nothing is recorded and History is empty.
func NewCurationService(backend curation.Service, journal curation.Journal) *CurationService {
	return &CurationService{
		backend: backend,
		journal: journal,
		logger:  logging.Component("curation"),
	}
}

// Submit validates c, sends it to the backend and journals the outcome.
// A backend rejection (Success=false) is returned as an error alongside the
// result. Failing to write the journal never fails the submission.
func (s *CurationService) Submit(ctx context.Context, c curation.Correction) (curation.CorrectionResult, error) {
	if err := c.Validate(); err != nil {
		return curation.CorrectionResult{}, fmt.Errorf("invalid correction: %w", err)
	}

	ctx = logging.WithField(ctx, string(c.Field))

	res, err := s.backend.Submit(ctx, c)
	if err == nil {
		err = res.Err()
	}

	s.record(ctx, c, res, err)

	if err != nil {
		s.logger.Warn().Ctx(ctx).Err(err).
			Str("action", string(c.Action)).
			Str("original", c.Original).
			Msg("correction failed")
		return res, fmt.Errorf("%s %q: %w", c.Action, c.Original, err)
	}

	s.logger.Info().Ctx(ctx).
		Str("action", string(c.Action)).
		Str("original", c.Original).
		Int("affected", res.Affected).
		Msg("correction applied")
	return res, nil
}

// SubmitAll submits corrections in order and stops at the first context
// cancellation. Individual failures are collected, not fatal.
func (s *CurationService) SubmitAll(ctx context.Context, cs []curation.Correction) ([]curation.CorrectionResult, []error) {
	results := make([]curation.CorrectionResult, len(cs))
	errs := make([]error, len(cs))

	for i, c := range cs {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		results[i], errs[i] = s.Submit(ctx, c)
	}
	return results, errs
}

func (s *CurationService) record(ctx context.Context, c curation.Correction, res curation.CorrectionResult, submitErr error) {
	if s.journal == nil {
		return
	}

	matched := ""
	if len(c.Matched) > 0 {
		data, err := json.Marshal(c.Matched)
		if err != nil {
			s.logger.Warn().Err(err).Msg("encode matched for journal")
		} else {
			matched = string(data)
		}
	}

	msg := res.Message
	if submitErr != nil {
		msg = submitErr.Error()
	}

	_, err := s.journal.Record(ctx, curation.JournalEntry{
		Action:   c.Action,
		Field:    c.Field,
		Original: c.Original,
		Matched:  matched,
		Months:   c.Months,
		Success:  submitErr == nil,
		Message:  msg,
	})
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to journal correction")
	}
}

// History returns the newest journal entries.
func (s *CurationService) History(ctx context.Context, limit int) ([]curation.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, limit)
}

// Prune removes journal entries older than the retention window.
func (s *CurationService) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	if olderThan <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", olderThan)
	}

	n, err := s.journal.Prune(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Int("removed", n).Dur("older_than", olderThan).Msg("journal pruned")
	return n, nil
}
