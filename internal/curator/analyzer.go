package curator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
)

// DefaultConcurrency bounds parallel analysis requests.
const DefaultConcurrency = 2

// Analyzer runs mismatch analyses and resolves month scopes.
type Analyzer struct {
	backend     curation.Service
	concurrency int
	logger      zerolog.Logger
}

// NewAnalyzer creates an Analyzer using DefaultConcurrency.
func NewAnalyzer(backend curation.Service) *Analyzer {
	return &Analyzer{
		backend:     backend,
		concurrency: DefaultConcurrency,
		logger:      logging.Component("analyzer"),
	}
}

// SetConcurrency changes the number of parallel requests. Values below 1 are
// treated as 1.
func (a *Analyzer) SetConcurrency(n int) {
	a.concurrency = max(n, 1)
}

// Analyze runs one field.
func (a *Analyzer) Analyze(ctx context.Context, req curation.AnalysisRequest) (curation.Analysis, error) {
	res, err := a.backend.Analyze(ctx, req)
	if err != nil {
		return curation.Analysis{}, fmt.Errorf("analyze %s: %w", req.Field, err)
	}
	return res, nil
}

// AnalyzeFields runs base once per field. Results are in field order. The
// first failure cancels the requests still running.
func (a *Analyzer) AnalyzeFields(ctx context.Context, fields []curation.Field, base curation.AnalysisRequest) ([]curation.Analysis, error) {
	results := make([]curation.Analysis, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, f := range fields {
		req := base
		req.Field = f
		g.Go(func() error {
			res, err := a.Analyze(gctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			a.logger.Debug().
				Str("field", string(f)).
				Int("items", len(res.Items)).
				Msg("analysis complete")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AvailableMonths lists the months the backend has data for.
func (a *Analyzer) AvailableMonths(ctx context.Context) ([]string, error) {
	return a.backend.AvailableMonths(ctx)
}

// ResolveMonths expands month patterns against the backend's available months.
// The backend is only asked when a pattern is a glob.
func (a *Analyzer) ResolveMonths(ctx context.Context, patterns []string) ([]string, error) {
	needsLookup := false
	for _, p := range patterns {
		if curation.IsMonthGlob(p) {
			needsLookup = true
			break
		}
	}

	var available []string
	if needsLookup {
		var err error
		available, err = a.AvailableMonths(ctx)
		if err != nil {
			return nil, fmt.Errorf("list available months: %w", err)
		}
	}

	return curation.ExpandMonths(patterns, available)
}
