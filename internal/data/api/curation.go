package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/logging"
)

var _ curation.Service = (*Client)(nil)

// actionPaths maps correction actions to their /api/analyze endpoints.
var actionPaths = map[curation.Action]string{
	curation.ActionValidate:        "validate",
	curation.ActionOverride:        "override",
	curation.ActionMarkCorrect:     "mark-correct",
	curation.ActionMarkUnmatched:   "remove-correct",
	curation.ActionRemoveDuplicate: "remove-duplicate",
}

// AvailableMonths lists the months with data, sorted ascending.
func (c *Client) AvailableMonths(ctx context.Context) ([]string, error) {
	var resp struct {
		Months []string `json:"months"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/files/available-months", nil, nil, &resp); err != nil {
		return nil, err
	}
	sort.Strings(resp.Months)
	return resp.Months, nil
}

// Analyze runs the mismatch analysis for one field.
func (c *Client) Analyze(ctx context.Context, req curation.AnalysisRequest) (curation.Analysis, error) {
	ctx = logging.WithField(ctx, string(req.Field))

	var out curation.Analysis
	if err := c.do(ctx, http.MethodPost, "/api/analyze/mismatch", nil, req, &out); err != nil {
		return curation.Analysis{}, err
	}
	if out.Field == "" {
		out.Field = req.Field
	}
	return out, nil
}

// Submit posts a correction to the endpoint for its action.
func (c *Client) Submit(ctx context.Context, corr curation.Correction) (curation.CorrectionResult, error) {
	path, ok := actionPaths[corr.Action]
	if !ok {
		return curation.CorrectionResult{}, fmt.Errorf("%w: %q", curation.ErrUnknownAction, corr.Action)
	}
	ctx = logging.WithField(ctx, string(corr.Field))

	var out curation.CorrectionResult
	if err := c.do(ctx, http.MethodPost, "/api/analyze/"+path, nil, corr, &out); err != nil {
		return curation.CorrectionResult{}, err
	}
	return out, nil
}
