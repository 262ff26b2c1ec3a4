// Package doctor runs health checks over a curator setup.
package doctor

import (
	"context"
	"sync"
)

// Status grades one line of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is one graded line of a check.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check inspects one part of the setup. Run never returns an error; problems
// are reported as failed items.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs the checks concurrently and returns their results in input order.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Go(func() {
			results[i] = check.Run(ctx)
		})
	}
	wg.Wait()
	return results
}

// Tally counts items by status.
type Tally struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

// Healthy reports whether no item failed.
func (t Tally) Healthy() bool { return t.Failed == 0 }

// Summary tallies the items across results.
func Summary(results []Result) Tally {
	var t Tally
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				t.Passed++
			case StatusWarn:
				t.Warned++
			case StatusFail:
				t.Failed++
			}
		}
	}
	return t
}

func item(s Status, label, detail string) CheckItem {
	return CheckItem{Label: label, Status: s, Detail: detail}
}

func pass(label, detail string) CheckItem { return item(StatusPass, label, detail) }
func warn(label, detail string) CheckItem { return item(StatusWarn, label, detail) }
func fail(label, detail string) CheckItem { return item(StatusFail, label, detail) }
