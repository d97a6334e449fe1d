package expense_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/internal/expense"
)

func TestTransition(t *testing.T) {
	type testCase struct {
		name string
		from expense.Status
		to   expense.Status
		want expense.DecisionKind
	}

	tests := []testCase{
		{
			name: "RequestToReview",
			from: expense.StatusRequest,
			to:   expense.StatusReview,
			want: expense.Allowed,
		},
		{
			name: "ReviewToConfirmed",
			from: expense.StatusReview,
			to:   expense.StatusConfirmed,
			want: expense.Allowed,
		},
		{
			name: "ConfirmedBackToRequest",
			from: expense.StatusConfirmed,
			to:   expense.StatusRequest,
			want: expense.Allowed,
		},
		{
			name: "LiveToArchived",
			from: expense.StatusConfirmed,
			to:   expense.StatusArchived,
			want: expense.Allowed,
		},
		{
			name: "ToDeclinedNeedsComment",
			from: expense.StatusReview,
			to:   expense.StatusDeclined,
			want: expense.RequiresAnnotation,
		},
		{
			name: "ToRevisionNeedsComment",
			from: expense.StatusRequest,
			to:   expense.StatusRevision,
			want: expense.RequiresAnnotation,
		},
		{
			name: "SameStatusRejected",
			from: expense.StatusReview,
			to:   expense.StatusReview,
			want: expense.Rejected,
		},
		{
			name: "UnknownTargetRejected",
			from: expense.StatusRequest,
			to:   expense.Status("pending"),
			want: expense.Rejected,
		},
		{
			name: "UnknownSourceRejected",
			from: expense.Status(""),
			to:   expense.StatusReview,
			want: expense.Rejected,
		},
		{
			name: "ArchivedToRequestAllowed",
			from: expense.StatusArchived,
			to:   expense.StatusRequest,
			want: expense.Allowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := expense.Transition(tt.from, tt.to)

			assert.Equal(t, tt.want, dec.Kind)
			if tt.want == expense.Rejected {
				assert.NotEmpty(t, dec.Reason)
			}
		})
	}
}

func TestTransition_ArchivedOnlyExitsToRequest(t *testing.T) {
	for _, to := range expense.Statuses {
		if to == expense.StatusRequest || to == expense.StatusArchived {
			continue
		}

		dec := expense.Transition(expense.StatusArchived, to)
		assert.Equal(t, expense.Rejected, dec.Kind, "archived -> %s", to)
	}
}

func TestAnnotationRequired(t *testing.T) {
	assert.True(t, expense.AnnotationRequired(expense.StatusDeclined))
	assert.True(t, expense.AnnotationRequired(expense.StatusRevision))
	assert.False(t, expense.AnnotationRequired(expense.StatusRequest))
	assert.False(t, expense.AnnotationRequired(expense.StatusReview))
	assert.False(t, expense.AnnotationRequired(expense.StatusConfirmed))
	assert.False(t, expense.AnnotationRequired(expense.StatusArchived))
}

func TestAuthorize(t *testing.T) {
	type testCase struct {
		name       string
		from       expense.Status
		to         expense.Status
		annotation string
		wantErr    error
	}

	tests := []testCase{
		{
			name: "AllowedWithoutComment",
			from: expense.StatusRequest,
			to:   expense.StatusReview,
		},
		{
			name:       "DeclinedWithComment",
			from:       expense.StatusReview,
			to:         expense.StatusDeclined,
			annotation: "missing receipt",
		},
		{
			name:    "DeclinedWithoutComment",
			from:    expense.StatusReview,
			to:      expense.StatusDeclined,
			wantErr: &expense.ValidationError{},
		},
		{
			name:       "DeclinedWithBlankComment",
			from:       expense.StatusReview,
			to:         expense.StatusDeclined,
			annotation: "   ",
			wantErr:    &expense.ValidationError{},
		},
		{
			name:    "SameStatus",
			from:    expense.StatusConfirmed,
			to:      expense.StatusConfirmed,
			wantErr: &expense.TransitionError{},
		},
		{
			name:    "ArchivedToConfirmed",
			from:    expense.StatusArchived,
			to:      expense.StatusConfirmed,
			wantErr: &expense.TransitionError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := expense.Authorize(tt.from, tt.to, tt.annotation)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)

			switch tt.wantErr.(type) {
			case *expense.ValidationError:
				var verr *expense.ValidationError
				assert.True(t, errors.As(err, &verr))
			case *expense.TransitionError:
				var terr *expense.TransitionError
				assert.True(t, errors.As(err, &terr))
			}
		})
	}
}

func TestActionTargets(t *testing.T) {
	t.Run("Archived", func(t *testing.T) {
		assert.Equal(t, []expense.Status{expense.StatusRequest}, expense.ActionTargets(expense.StatusArchived))
	})

	t.Run("Live", func(t *testing.T) {
		targets := expense.ActionTargets(expense.StatusReview)

		assert.Len(t, targets, len(expense.Statuses)-1)
		assert.NotContains(t, targets, expense.StatusReview)
		assert.Contains(t, targets, expense.StatusArchived)
	})
}
