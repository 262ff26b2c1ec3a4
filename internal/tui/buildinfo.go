package tui

import "fmt"

// BuildInfo identifies the running binary. Version is shown in the header.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// String formats the info as "version (commit) date" with the commit cut to
// seven characters.
func (b BuildInfo) String() string {
	commit := b.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s) %s", b.Version, commit, b.Date)
}
