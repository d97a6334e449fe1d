package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/cmd/tui/internal/view"
	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/config"
	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/stub"
)

func newTestShell(t *testing.T) model {
	t.Helper()

	s := stub.New()
	s.Seed()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Board.RefreshInterval = time.Minute
	cfg.Export.Dir = t.TempDir()

	gw := gateway.New(srv.URL+"/api", "test-token", 5*time.Second)
	ctrl := board.NewController(gw, board.NewStore())

	return model{
		cfg:         cfg,
		gw:          gw,
		ctrl:        ctrl,
		changes:     ctrl.Store().Subscribe(),
		currentView: ViewMenu,
	}
}

// openBoard presses "1" and runs the board's init commands so it leaves
// the loading state.
func openBoard(t *testing.T, m model) model {
	t.Helper()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m = updated.(model)
	require.Equal(t, ViewBoard, m.currentView)
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	for _, c := range batch {
		msg := c()
		if _, isSpinner := msg.(spinner.TickMsg); isSpinner {
			continue
		}

		updated, _ = m.Update(msg)
		m = updated.(model)
	}

	// Drop the subscription signal left by the initial refetch.
	select {
	case <-m.changes:
	default:
	}

	return m
}

func firstByStatus(t *testing.T, m model, status expense.Status) expense.Request {
	t.Helper()

	for _, r := range m.ctrl.Store().List() {
		if r.Status == status {
			return r
		}
	}

	t.Fatalf("no seeded request with status %s", status)

	return expense.Request{}
}

func TestShell_RefreshTickSurvivesOtherViews(t *testing.T) {
	m := newTestShell(t)
	m = openBoard(t, m)

	r := firstByStatus(t, m, expense.StatusRequest)
	updated, _ := m.Update(view.OpenDetailMsg{ID: r.ID})
	m = updated.(model)
	require.Equal(t, ViewDetail, m.currentView)

	updated, cmd := m.Update(view.BoardTickMsg(time.Now()))
	m = updated.(model)

	assert.Equal(t, ViewDetail, m.currentView)
	require.NotNil(t, cmd, "the refresh chain must be re-armed from any view")
}

func TestShell_StoreChangeUpdatesBoardFromDetailView(t *testing.T) {
	m := newTestShell(t)
	m = openBoard(t, m)

	r := firstByStatus(t, m, expense.StatusRequest)
	updated, _ := m.Update(view.OpenDetailMsg{ID: r.ID})
	m = updated.(model)
	require.Equal(t, ViewDetail, m.currentView)

	require.Contains(t, m.boardView.View(), r.Code)

	archived := r.Clone()
	archived.Status = expense.StatusArchived
	m.ctrl.Store().ReplaceOne(archived)

	msg := view.WaitForChange(m.changes)()
	updated, cmd := m.Update(msg)
	m = updated.(model)

	assert.Equal(t, ViewDetail, m.currentView)
	require.NotNil(t, cmd, "the subscription must be re-armed after every signal")
	assert.NotContains(t, m.boardView.View(), r.Code)
}
