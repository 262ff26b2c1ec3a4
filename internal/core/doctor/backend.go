package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

// MonthLister lists the months the backend has data for.
type MonthLister interface {
	AvailableMonths(ctx context.Context) ([]string, error)
}

// BackendCheck verifies the pipeline API answers and that the configured
// month scope resolves to data.
type BackendCheck struct {
	svc     MonthLister
	baseURL string
	months  []string
	timeout time.Duration
}

// NewBackendCheck creates a backend check. months are the configured month
// patterns; an empty scope only warns.
func NewBackendCheck(svc MonthLister, baseURL string, months []string, timeout time.Duration) *BackendCheck {
	return &BackendCheck{svc: svc, baseURL: baseURL, months: months, timeout: timeout}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	available, err := c.svc.AvailableMonths(ctx)
	if err != nil {
		result.Items = append(result.Items, fail("API", fmt.Sprintf("%s: %v", c.baseURL, err)))
		return result
	}
	if len(available) == 0 {
		result.Items = append(result.Items, warn("API", c.baseURL+" has no months of data"))
	} else {
		result.Items = append(result.Items, pass("API", fmt.Sprintf("%s (%d months, %s to %s)",
			c.baseURL, len(available), available[0], available[len(available)-1])))
	}

	if len(c.months) == 0 {
		result.Items = append(result.Items, warn("Month scope", "none configured, pass --months"))
		return result
	}

	resolved, err := curation.ExpandMonths(c.months, available)
	switch {
	case errors.Is(err, curation.ErrNoMonths):
		result.Items = append(result.Items, fail("Month scope", strings.Join(c.months, ", ")+" matches no data"))
	case err != nil:
		result.Items = append(result.Items, fail("Month scope", err.Error()))
	default:
		result.Items = append(result.Items, pass("Month scope", fmt.Sprintf("%d months", len(resolved))))
	}
	return result
}
