package curation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// ErrUnknownAction is returned when parsing an action name that is not supported.
var ErrUnknownAction = errors.New("unknown action")

// Action is a reviewer decision about an entry.
type Action string

const (
	ActionValidate        Action = "validate"
	ActionOverride        Action = "override"
	ActionMarkCorrect     Action = "mark_correct"
	ActionMarkUnmatched   Action = "mark_unmatched"
	ActionRemoveDuplicate Action = "remove_duplicate"
)

// Actions lists every supported action.
var Actions = []Action{
	ActionValidate,
	ActionOverride,
	ActionMarkCorrect,
	ActionMarkUnmatched,
	ActionRemoveDuplicate,
}

// ParseAction converts a name into an Action. Dashes are accepted in place of underscores.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// RequiresMatch reports whether the action needs a matched object.
func (a Action) RequiresMatch() bool {
	switch a {
	case ActionValidate, ActionOverride, ActionMarkCorrect:
		return true
	default:
		return false
	}
}

// Label is the human-readable name of the action.
func (a Action) Label() string {
	switch a {
	case ActionValidate:
		return "validated"
	case ActionOverride:
		return "overridden"
	case ActionMarkCorrect:
		return "marked correct"
	case ActionMarkUnmatched:
		return "marked unmatched"
	case ActionRemoveDuplicate:
		return "removed duplicate"
	default:
		return string(a)
	}
}

// Correction is a reviewer decision submitted to the backend.
type Correction struct {
	Action   Action         `json:"action"`
	Field    Field          `json:"field"`
	Original string         `json:"original"`
	Matched  map[string]any `json:"matched,omitempty"`
	Months   []string       `json:"months,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

// CorrectionFromEntry builds a correction for an entry using its current match.
func CorrectionFromEntry(action Action, field Field, e *Entry, months []string) Correction {
	return Correction{
		Action:   action,
		Field:    field,
		Original: e.Original,
		Matched:  e.Matched,
		Months:   months,
	}
}

// Validate checks that the correction carries what its action needs.
func (c *Correction) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("action", string(c.Action), func(s string) error {
			_, err := ParseAction(s)
			return err
		}),
		criterio.Run("field", string(c.Field), func(s string) error {
			_, err := ParseField(s)
			return err
		}),
		criterio.Run("original", c.Original, func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("original text is required")
			}
			return nil
		}),
		c.validateMatched(),
		c.validateMonths(),
	)
}

func (c *Correction) validateMatched() error {
	if !c.Action.RequiresMatch() || len(c.Matched) > 0 {
		return nil
	}
	return criterio.NewFieldErrors("matched", fmt.Errorf("required for %s", c.Action))
}

func (c *Correction) validateMonths() error {
	var errs criterio.FieldErrorsBuilder
	for i, m := range c.Months {
		if err := ValidateMonth(m); err != nil {
			errs = errs.Append(fmt.Sprintf("months[%d]", i), err)
		}
	}
	return errs.ToError()
}

// CorrectionResult is the backend's response to a correction.
type CorrectionResult struct {
	Success  bool     `json:"success"`
	Affected int      `json:"affected"`
	Message  string   `json:"message,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Err converts an unsuccessful result into an error.
func (r CorrectionResult) Err() error {
	if r.Success {
		return nil
	}
	msg := r.Message
	if len(r.Errors) > 0 {
		msg = strings.TrimSpace(msg + " " + strings.Join(r.Errors, "; "))
	}
	if msg == "" {
		msg = "backend rejected correction"
	}
	return errors.New(msg)
}
