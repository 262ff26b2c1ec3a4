// Package curation defines the match/mismatch entries reviewed by curators and
// the corrections they submit back to the backend.
package curation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownField is returned when parsing a field name that is not reviewed.
var ErrUnknownField = errors.New("unknown field")

// Field is a product category produced by the matcher.
type Field string

const (
	FieldRazor Field = "razor"
	FieldBlade Field = "blade"
	FieldBrush Field = "brush"
	FieldSoap  Field = "soap"
)

// Fields lists every reviewable field in display order.
var Fields = []Field{FieldRazor, FieldBlade, FieldBrush, FieldSoap}

// ParseField converts a case-insensitive name into a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ParseFields parses a list of field names, dropping duplicates.
func ParseFields(names []string) ([]Field, error) {
	seen := make(map[Field]bool, len(names))
	out := make([]Field, 0, len(names))
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// Next returns the field after f in Fields, wrapping around.
func (f Field) Next() Field {
	for i, known := range Fields {
		if known == f {
			return Fields[(i+1)%len(Fields)]
		}
	}
	return Fields[0]
}

// Entry is one match record under review. CommentIDs are the comments the
// original text was extracted from, in navigation order.
type Entry struct {
	Original     string         `json:"original"`
	Matched      map[string]any `json:"matched,omitempty"`
	Pattern      string         `json:"pattern,omitempty"`
	MatchType    string         `json:"match_type,omitempty"`
	MismatchType string         `json:"mismatch_type,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	Count        int            `json:"count"`
	CommentIDs   []string       `json:"comment_ids,omitempty"`
	Examples     []string       `json:"examples,omitempty"`
	IsConfirmed  bool           `json:"is_confirmed"`
}

// HasComments reports whether the entry references any comment.
func (e *Entry) HasComments() bool {
	return len(e.CommentIDs) > 0
}

// MatchedLabel renders the matched object as "key: value" pairs sorted by key.
func (e *Entry) MatchedLabel() string {
	if len(e.Matched) == 0 {
		return ""
	}

	keys := make([]string, 0, len(e.Matched))
	for k := range e.Matched {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := e.Matched[k]
		if v == nil || v == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return strings.Join(parts, ", ")
}

// AnalysisRequest asks the backend for the mismatch analysis of one field.
type AnalysisRequest struct {
	Field       Field    `json:"field"`
	Months      []string `json:"months"`
	Threshold   int      `json:"threshold"`
	Limit       int      `json:"limit,omitempty"`
	DisplayMode string   `json:"display_mode,omitempty"`
}

// Analysis is the backend's mismatch analysis for one field.
type Analysis struct {
	Field           Field    `json:"field"`
	Months          []string `json:"months"`
	TotalMatches    int      `json:"total_matches"`
	TotalMismatches int      `json:"total_mismatches"`
	Items           []Entry  `json:"mismatch_items"`
	ProcessingTime  float64  `json:"processing_time"`
}

// Service is the backend's curation API.
type Service interface {
	// AvailableMonths lists the months the backend has data for (YYYY-MM).
	AvailableMonths(ctx context.Context) ([]string, error)

	// Analyze runs the mismatch analysis for a field.
	Analyze(ctx context.Context, req AnalysisRequest) (Analysis, error)

	// Submit applies a human-reviewed correction.
	Submit(ctx context.Context, c Correction) (CorrectionResult, error)
}
