package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
)

func boardRequest() expense.Request {
	return expense.Request{
		ID:     "r1",
		Code:   "HRB-001",
		Status: expense.StatusRequest,
		Items: []expense.Item{
			{Name: "Cement", Quantity: 4, Amount: 120000, Currency: expense.CurrencyUZS},
		},
		TotalAmount: 480000,
		Currency:    expense.CurrencyUZS,
		Date:        time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWaitForChange_SignalsAfterMutation(t *testing.T) {
	store := board.NewStore()
	ch := store.Subscribe()

	store.ReplaceAll([]expense.Request{boardRequest()})

	msg := WaitForChange(ch)()
	assert.Equal(t, StoreChangedMsg{}, msg)
}

func TestBoardModel_StoreChangeRebuildsColumns(t *testing.T) {
	c := board.NewController(board.NewMockGateway(gomock.NewController(t)), board.NewStore())
	r := boardRequest()
	c.Store().ReplaceAll([]expense.Request{r})

	m := NewBoardModel(c, nil)
	m.state = boardStateBoard
	m.reloadColumns()
	require.Len(t, m.cols[0].Cards, 1)

	moved := r.Clone()
	moved.Status = expense.StatusReview
	c.Store().ReplaceOne(moved)

	// Columns are rebuilt on the change notification, not on the write.
	assert.Len(t, m.cols[0].Cards, 1)

	updated, _ := m.Update(StoreChangedMsg{})
	m = updated.(BoardModel)

	assert.Empty(t, m.cols[0].Cards)
	require.Len(t, m.cols[1].Cards, 1)
	assert.Equal(t, "HRB-001", m.cols[1].Cards[0].Code)
}

func TestBoardModel_OptimisticMoveVisibleWhileCommitPending(t *testing.T) {
	gw := board.NewMockGateway(gomock.NewController(t))
	c := board.NewController(gw, board.NewStore())
	ch := c.Store().Subscribe()

	r := boardRequest()
	c.Store().ReplaceAll([]expense.Request{r})
	<-ch // seed signal

	release := make(chan struct{})
	gw.EXPECT().
		SetExpenseStatus(gomock.Any(), r.ID, expense.StatusReview, "").
		DoAndReturn(func(context.Context, string, expense.Status, string) (expense.Request, error) {
			<-release

			moved := boardRequest()
			moved.Status = expense.StatusReview

			return moved, nil
		})

	done := make(chan error, 1)
	go func() { done <- c.Move(context.Background(), r.ID, expense.StatusReview, "") }()

	// The optimistic re-bucket signals before the commit returns.
	msg := WaitForChange(ch)()
	require.Equal(t, StoreChangedMsg{}, msg)

	m := NewBoardModel(c, nil)
	m.state = boardStateBoard
	updated, _ := m.Update(StoreChangedMsg{})
	m = updated.(BoardModel)

	assert.Empty(t, m.cols[0].Cards)
	require.Len(t, m.cols[1].Cards, 1)
	assert.Equal(t, board.PhasePendingCommit, c.State(r.ID).Phase)

	close(release)
	require.NoError(t, <-done)
}
