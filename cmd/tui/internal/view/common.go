package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenDetailMsg asks the shell to open the detail view for a request.
type OpenDetailMsg struct {
	ID string
}

func OpenDetail(id string) tea.Cmd {
	return func() tea.Msg {
		return OpenDetailMsg{ID: id}
	}
}

const apiTimeout = 30 * time.Second

// APICtx returns a context with the standard timeout for gateway calls
// issued from view commands.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}
