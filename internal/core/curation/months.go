package curation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMonths is returned when a month scope resolves to nothing.
var ErrNoMonths = errors.New("no months match the requested scope")

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidateMonth checks that s is a calendar month in YYYY-MM form.
func ValidateMonth(s string) error {
	if !monthPattern.MatchString(s) {
		return fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return nil
}

// IsMonthGlob reports whether the pattern contains glob metacharacters.
func IsMonthGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// ValidateMonthPattern checks a literal month or a glob pattern.
func ValidateMonthPattern(p string) error {
	if !IsMonthGlob(p) {
		return ValidateMonth(p)
	}
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("invalid month pattern %q", p)
	}
	return nil
}

// ExpandMonths resolves month patterns against the months the backend has data
// for. Literal months are kept even when not listed as available; globs only
// expand to available months. The result is sorted and free of duplicates.
func ExpandMonths(patterns []string, available []string) ([]string, error) {
	set := make(map[string]struct{})

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := ValidateMonthPattern(p); err != nil {
			return nil, err
		}

		if !IsMonthGlob(p) {
			set[p] = struct{}{}
			continue
		}

		for _, m := range available {
			ok, err := doublestar.Match(p, m)
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", p, err)
			}
			if ok {
				set[m] = struct{}{}
			}
		}
	}

	if len(set) == 0 {
		return nil, ErrNoMonths
	}

	months := make([]string, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	slices.Sort(months)
	return months, nil
}

// SplitMonths splits comma-separated month arguments, as accepted on the
// command line, into individual patterns.
func SplitMonths(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
