package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
)

func TestStore_ReplaceAll(t *testing.T) {
	s := board.NewStore()

	s.ReplaceAll([]expense.Request{
		{ID: "a", Code: "PRJ-001"},
		{ID: "b", Code: "PRJ-002"},
	})

	assert.Equal(t, 2, s.Len())

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	s.ReplaceAll([]expense.Request{{ID: "c", Code: "PRJ-003"}})

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestStore_ReplaceOne_KeepsPosition(t *testing.T) {
	s := board.NewStore()
	s.ReplaceAll([]expense.Request{
		{ID: "a", Status: expense.StatusRequest},
		{ID: "b", Status: expense.StatusRequest},
	})

	s.ReplaceOne(expense.Request{ID: "a", Status: expense.StatusReview})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, expense.StatusReview, list[0].Status)
}

func TestStore_ReplaceOne_AppendsUnknown(t *testing.T) {
	s := board.NewStore()
	s.ReplaceAll([]expense.Request{{ID: "a"}})

	s.ReplaceOne(expense.Request{ID: "z"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "z", list[1].ID)
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	s := board.NewStore()
	s.ReplaceAll([]expense.Request{
		{ID: "a", Items: []expense.Item{{Name: "Cement"}}},
	})

	got, ok := s.Get("a")
	require.True(t, ok)

	got.Items[0].Name = "Paint"

	again, _ := s.Get("a")
	assert.Equal(t, "Cement", again.Items[0].Name)
}

func TestStore_Subscribe(t *testing.T) {
	s := board.NewStore()
	ch := s.Subscribe()

	s.ReplaceAll([]expense.Request{{ID: "a"}})

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}

	// Two mutations without a read coalesce into one pending signal.
	s.ReplaceOne(expense.Request{ID: "a"})
	s.ReplaceOne(expense.Request{ID: "b"})

	<-ch

	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}
}
