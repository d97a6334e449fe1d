package filter

import (
	"strings"
	"time"

	"github.com/safina-app/safina/internal/expense"
)

// ProjectAll is the sentinel that disables project filtering.
const ProjectAll = "all"

// Scope selects which side of the archive boundary a view sees.
type Scope int

const (
	// ScopeLive is the kanban board: everything except archived.
	ScopeLive Scope = iota
	// ScopeArchive is the archive view: archived only.
	ScopeArchive
	// ScopeAll spans both, used by the all-statuses export.
	ScopeAll
)

// Filter is a pure, composable predicate over the request collection.
// It is independent of board bucketing; the board and the export
// pipeline apply the same filter to the same collection.
type Filter struct {
	Project string     // project id, "" or ProjectAll matches everything
	From    *time.Time // inclusive, normalized to start of day
	To      *time.Time // inclusive, normalized to end of day
	Query   string     // case-insensitive substring of the request code
	Scope   Scope
}

func (f Filter) Match(r expense.Request) bool {
	switch f.Scope {
	case ScopeLive:
		if r.Status == expense.StatusArchived {
			return false
		}
	case ScopeArchive:
		if r.Status != expense.StatusArchived {
			return false
		}
	}

	if f.Project != "" && f.Project != ProjectAll && r.ProjectID != f.Project {
		return false
	}

	if f.From != nil && r.Date.Before(StartOfDay(*f.From)) {
		return false
	}

	if f.To != nil && r.Date.After(EndOfDay(*f.To)) {
		return false
	}

	if f.Query != "" && !strings.Contains(strings.ToLower(r.Code), strings.ToLower(f.Query)) {
		return false
	}

	return true
}

// Apply returns the matching requests in their original order.
func (f Filter) Apply(list []expense.Request) []expense.Request {
	var out []expense.Request

	for _, r := range list {
		if f.Match(r) {
			out = append(out, r)
		}
	}

	return out
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
