package entries

import (
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

// Controller holds the entry list state behind the view: the loaded entries,
// the fuzzy filter over them and a scrolling cursor. It has no Bubble Tea
// dependencies.
type Controller struct {
	entries []curation.Entry
	rows    []int // entries index per visible row, best match first

	query   []rune
	editing bool

	cursor int
	top    int
}

func NewController() *Controller {
	return &Controller{}
}

// SetEntries replaces the list and resets the cursor. An active filter is kept.
func (c *Controller) SetEntries(entries []curation.Entry) {
	c.entries = entries
	c.cursor, c.top = 0, 0
	c.refilter()
}

// Apply mirrors a successful correction onto the local copy of the entry
// whose original text matches.
func (c *Controller) Apply(original string, action curation.Action) {
	i := slices.IndexFunc(c.entries, func(e curation.Entry) bool { return e.Original == original })
	if i < 0 {
		return
	}

	e := &c.entries[i]
	switch action {
	case curation.ActionValidate, curation.ActionOverride, curation.ActionMarkCorrect:
		e.IsConfirmed = true
	case curation.ActionMarkUnmatched:
		e.IsConfirmed = false
		e.Matched = nil
	case curation.ActionRemoveDuplicate:
		c.entries = slices.Delete(c.entries, i, i+1)
		c.refilter()
	}
}

// StartFilter enters filter editing, continuing from the current query.
func (c *Controller) StartFilter() {
	c.editing = true
}

// CancelFilter leaves filter editing and drops the query.
func (c *Controller) CancelFilter() {
	c.editing = false
	c.query = c.query[:0]
	c.refilter()
}

// ConfirmFilter leaves filter editing and keeps the query applied.
func (c *Controller) ConfirmFilter() {
	c.editing = false
}

func (c *Controller) IsFiltering() bool {
	return c.editing
}

func (c *Controller) AddFilterRune(r rune) {
	c.query = append(c.query, r)
	c.refilter()
}

func (c *Controller) DeleteFilterRune() {
	if len(c.query) == 0 {
		return
	}
	c.query = c.query[:len(c.query)-1]
	c.refilter()
}

// Filter returns the query text.
func (c *Controller) Filter() string {
	return string(c.query)
}

// MoveUp moves the cursor one row up, scrolling within a window of height rows.
func (c *Controller) MoveUp(height int) {
	if c.cursor == 0 {
		return
	}
	c.cursor--
	c.scroll(height)
}

// MoveDown moves the cursor one row down, scrolling within a window of height rows.
func (c *Controller) MoveDown(height int) {
	if c.cursor+1 >= len(c.rows) {
		return
	}
	c.cursor++
	c.scroll(height)
}

// Selected returns the entry under the cursor, or nil when nothing is visible.
func (c *Controller) Selected() *curation.Entry {
	if c.cursor >= len(c.rows) {
		return nil
	}
	return &c.entries[c.rows[c.cursor]]
}

// Visible returns the entries that pass the filter, in display order.
func (c *Controller) Visible() []*curation.Entry {
	out := make([]*curation.Entry, 0, len(c.rows))
	for _, idx := range c.rows {
		out = append(out, &c.entries[idx])
	}
	return out
}

func (c *Controller) Cursor() int { return c.cursor }

// Offset is the first visible row.
func (c *Controller) Offset() int { return c.top }

// Len counts every entry, filtered out or not.
func (c *Controller) Len() int { return len(c.entries) }

// SetSize re-scrolls after the window height changes.
func (c *Controller) SetSize(height int) {
	c.scroll(height)
}

func (c *Controller) refilter() {
	c.rows = c.rows[:0]

	if len(c.query) == 0 {
		for i := range c.entries {
			c.rows = append(c.rows, i)
		}
	} else {
		for _, m := range fuzzy.FindFrom(string(c.query), entrySource(c.entries)) {
			c.rows = append(c.rows, m.Index)
		}
	}

	c.cursor = min(c.cursor, max(len(c.rows)-1, 0))
	c.top = min(c.top, c.cursor)
}

// scroll keeps the cursor inside a window of height rows starting at top.
func (c *Controller) scroll(height int) {
	switch {
	case c.cursor < c.top:
		c.top = c.cursor
	case c.cursor >= c.top+height:
		c.top = c.cursor - height + 1
	}
	c.top = max(min(c.top, len(c.rows)-height), 0)
}

// entrySource exposes entries to fuzzy matching by original text and matched label.
type entrySource []curation.Entry

func (s entrySource) String(i int) string {
	return s[i].Original + " " + s[i].MatchedLabel()
}

func (s entrySource) Len() int { return len(s) }
