package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestFilter_Match(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	req := expense.Request{
		ID:        "r1",
		Code:      "PRJ-007",
		ProjectID: "p1",
		Status:    expense.StatusReview,
		Date:      time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
	}

	type testCase struct {
		name string
		f    filter.Filter
		r    expense.Request
		want bool
	}

	tests := []testCase{
		{
			name: "ZeroFilterMatchesLive",
			f:    filter.Filter{},
			r:    req,
			want: true,
		},
		{
			name: "ProjectAllSentinel",
			f:    filter.Filter{Project: filter.ProjectAll},
			r:    req,
			want: true,
		},
		{
			name: "ProjectMismatch",
			f:    filter.Filter{Project: "p2"},
			r:    req,
			want: false,
		},
		{
			name: "LiveScopeHidesArchived",
			f:    filter.Filter{Scope: filter.ScopeLive},
			r:    expense.Request{Status: expense.StatusArchived},
			want: false,
		},
		{
			name: "ArchiveScopeHidesLive",
			f:    filter.Filter{Scope: filter.ScopeArchive},
			r:    req,
			want: false,
		},
		{
			name: "AllScopeSpansBoth",
			f:    filter.Filter{Scope: filter.ScopeAll},
			r:    expense.Request{Status: expense.StatusArchived},
			want: true,
		},
		{
			name: "ToBoundIncludesEndOfDay",
			f:    filter.Filter{To: datePtr(day)},
			r: expense.Request{
				Status: expense.StatusReview,
				Date:   time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			},
			want: true,
		},
		{
			name: "ToBoundExcludesNextDay",
			f:    filter.Filter{To: datePtr(day)},
			r: expense.Request{
				Status: expense.StatusReview,
				Date:   time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC),
			},
			want: false,
		},
		{
			name: "FromBoundIncludesStartOfDay",
			f:    filter.Filter{From: datePtr(day)},
			r: expense.Request{
				Status: expense.StatusReview,
				Date:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			want: true,
		},
		{
			name: "FromBoundExcludesPreviousDay",
			f:    filter.Filter{From: datePtr(day)},
			r: expense.Request{
				Status: expense.StatusReview,
				Date:   time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC),
			},
			want: false,
		},
		{
			name: "QueryCaseInsensitive",
			f:    filter.Filter{Query: "prj-007"},
			r:    req,
			want: true,
		},
		{
			name: "QuerySubstring",
			f:    filter.Filter{Query: "007"},
			r:    req,
			want: true,
		},
		{
			name: "QueryMiss",
			f:    filter.Filter{Query: "HRB"},
			r:    req,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Match(tt.r))
		})
	}
}

func TestFilter_Apply_PreservesOrder(t *testing.T) {
	list := []expense.Request{
		{ID: "a", Code: "PRJ-001", Status: expense.StatusRequest},
		{ID: "b", Code: "PRJ-002", Status: expense.StatusArchived},
		{ID: "c", Code: "PRJ-003", Status: expense.StatusConfirmed},
	}

	got := filter.Filter{}.Apply(list)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
