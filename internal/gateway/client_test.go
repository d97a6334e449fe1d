package gateway_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/stub"
	"github.com/safina-app/safina/internal/team"
)

func newTestClient(t *testing.T) *gateway.Client {
	t.Helper()

	s := stub.New()
	s.Seed()

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return gateway.New(srv.URL+"/api", "test-token", 5*time.Second)
}

func findByStatus(t *testing.T, list []expense.Request, status expense.Status) expense.Request {
	t.Helper()

	for _, r := range list {
		if r.Status == status {
			return r
		}
	}

	t.Fatalf("no request with status %s", status)

	return expense.Request{}
}

func TestClient_ListExpenses(t *testing.T) {
	c := newTestClient(t)

	list, err := c.ListExpenses(context.Background(), gateway.ExpenseQuery{})
	require.NoError(t, err)
	require.Len(t, list, 5)

	first := list[0]
	assert.Equal(t, "HRB-001", first.Code)
	assert.Equal(t, "Harbor Renovation", first.ProjectName)
	assert.Equal(t, "Karimova Dilnoza", first.CreatedBy)
	assert.NoError(t, first.VerifyTotal())

	t.Run("StatusQuery", func(t *testing.T) {
		confirmed, err := c.ListExpenses(context.Background(), gateway.ExpenseQuery{Status: expense.StatusConfirmed})
		require.NoError(t, err)
		require.Len(t, confirmed, 1)
		assert.Equal(t, expense.CurrencyUSD, confirmed[0].Currency)
	})
}

func TestClient_CreateExpense(t *testing.T) {
	c := newTestClient(t)

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)

	created, err := c.CreateExpense(context.Background(), gateway.CreateExpenseParams{
		Purpose:   "Winter site heating",
		ProjectID: projects[0].ID,
		Items: []expense.Item{
			{Name: "Diesel heater", Quantity: 2, Amount: 1_100_000, Currency: expense.CurrencyUZS},
			{Name: "Fuel, 20l", Quantity: 5, Amount: 180_000, Currency: expense.CurrencyUZS},
		},
	})
	require.NoError(t, err)

	// Codes continue the project sequence started by the seed data.
	assert.Equal(t, "HRB-006", created.Code)
	assert.Equal(t, expense.StatusRequest, created.Status)
	assert.InDelta(t, 3_100_000, created.TotalAmount, 1e-6)
	assert.NoError(t, created.VerifyTotal())
}

func TestClient_SetExpenseStatus(t *testing.T) {
	c := newTestClient(t)

	list, err := c.ListExpenses(context.Background(), gateway.ExpenseQuery{})
	require.NoError(t, err)

	inReview := findByStatus(t, list, expense.StatusReview)

	t.Run("Confirm", func(t *testing.T) {
		updated, err := c.SetExpenseStatus(context.Background(), inReview.ID, expense.StatusConfirmed, "")
		require.NoError(t, err)
		assert.Equal(t, expense.StatusConfirmed, updated.Status)
		assert.Empty(t, updated.StatusComment)
	})

	t.Run("DeclineWithoutCommentRejected", func(t *testing.T) {
		_, err := c.SetExpenseStatus(context.Background(), inReview.ID, expense.StatusDeclined, "")

		var terr *gateway.TransportError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, 422, terr.StatusCode)
	})

	t.Run("DeclineWithComment", func(t *testing.T) {
		updated, err := c.SetExpenseStatus(context.Background(), inReview.ID, expense.StatusDeclined, "missing receipt")
		require.NoError(t, err)
		assert.Equal(t, expense.StatusDeclined, updated.Status)
		assert.Equal(t, "missing receipt", updated.StatusComment)
	})

	t.Run("UnknownID", func(t *testing.T) {
		_, err := c.SetExpenseStatus(context.Background(), "nope", expense.StatusReview, "")

		var terr *gateway.TransportError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, 404, terr.StatusCode)
	})
}

func TestClient_SetInternalComment(t *testing.T) {
	c := newTestClient(t)

	list, err := c.ListExpenses(context.Background(), gateway.ExpenseQuery{})
	require.NoError(t, err)

	id := list[0].ID
	require.NoError(t, c.SetInternalComment(context.Background(), id, "check the contract rate"))

	list, err = c.ListExpenses(context.Background(), gateway.ExpenseQuery{})
	require.NoError(t, err)

	for _, r := range list {
		if r.ID == id {
			assert.Equal(t, "check the contract rate", r.InternalComment)
			return
		}
	}

	t.Fatal("request disappeared after comment update")
}

func TestClient_Projects(t *testing.T) {
	c := newTestClient(t)

	created, err := c.CreateProject(context.Background(), "Warehouse B", "whb")
	require.NoError(t, err)
	assert.Equal(t, "WHB", created.Code)

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	require.NoError(t, c.DeleteProject(context.Background(), created.ID))

	projects, err = c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestClient_Team(t *testing.T) {
	c := newTestClient(t)

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)

	created, err := c.CreateTeamMember(context.Background(), team.CreateParams{
		LastName:   "Rashidov",
		FirstName:  "Bekzod",
		Position:   "Foreman",
		ProjectIDs: []string{projects[0].ID},
		Login:      "brashidov",
		Password:   "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rashidov Bekzod", created.FullName())
	assert.Equal(t, team.StatusActive, created.Status)

	members, err := c.ListTeam(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// The member shows up on the project roster too.
	projects, err = c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects[0].Members, 2)

	require.NoError(t, c.DeleteTeamMember(context.Background(), created.ID))

	projects, err = c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects[0].Members, 1)
}

func TestClient_ExportExpensesCSV(t *testing.T) {
	c := newTestClient(t)
	dir := t.TempDir()

	path, err := c.ExportExpensesCSV(context.Background(), gateway.CSVExportQuery{AllStatuses: true}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"))
	assert.Contains(t, content, `"HRB-001"`)
	assert.Contains(t, content, `"Archived"`)

	t.Run("ConfirmedOnly", func(t *testing.T) {
		path, err := c.ExportExpensesCSV(context.Background(), gateway.CSVExportQuery{}, dir)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"Archived"`)
		assert.Contains(t, string(data), `"Confirmed"`)
	})
}

func TestClient_ExportExpenseDocument(t *testing.T) {
	c := newTestClient(t)

	list, err := c.ListExpenses(context.Background(), gateway.ExpenseQuery{})
	require.NoError(t, err)

	path, err := c.ExportExpenseDocument(context.Background(), list[0].ID, t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

// TestBoardAgainstStub wires the real client into the board controller
// and replays the decline flow end to end.
func TestBoardAgainstStub(t *testing.T) {
	c := newTestClient(t)
	ctrl := board.NewController(c, board.NewStore())

	require.NoError(t, ctrl.Refresh(context.Background()))

	cols := ctrl.Columns(filter.Filter{})
	require.Len(t, cols[1].Cards, 1)
	card := cols[1].Cards[0]

	// Dragging to declined without a comment never leaves the client.
	err := ctrl.Move(context.Background(), card.ID, expense.StatusDeclined, "")
	var verr *expense.ValidationError
	require.True(t, errors.As(err, &verr))

	got, _ := ctrl.Store().Get(card.ID)
	assert.Equal(t, expense.StatusReview, got.Status)

	// With the annotation the commit lands and the authoritative record
	// carries the comment back.
	require.NoError(t, ctrl.Move(context.Background(), card.ID, expense.StatusDeclined, "missing receipt"))

	got, _ = ctrl.Store().Get(card.ID)
	assert.Equal(t, expense.StatusDeclined, got.Status)
	assert.Equal(t, "missing receipt", got.StatusComment)
}
