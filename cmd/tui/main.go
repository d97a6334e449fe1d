package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/safina-app/safina/cmd/tui/internal/view"
	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/config"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/project"
)

type model struct {
	cfg  *config.Config
	gw   *gateway.Client
	ctrl *board.Controller

	projects []project.Project

	// changes delivers store mutation signals; the shell waits on it so
	// the board stays current while any other view is open.
	changes    <-chan struct{}
	boardReady bool

	currentView View
	returnView  View // where Back from the detail view leads

	boardView    view.BoardModel
	detailView   view.DetailModel
	archiveView  view.ArchiveModel
	submitView   view.SubmitModel
	projectsView view.ProjectsModel
	teamView     view.TeamModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu View = iota
	ViewBoard
	ViewDetail
	ViewArchive
	ViewSubmit
	ViewProjects
	ViewTeam
	ViewExport
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	gw := gateway.New(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	ctrl := board.NewController(gw, board.NewStore())

	m := model{
		cfg:         cfg,
		gw:          gw,
		ctrl:        ctrl,
		changes:     ctrl.Store().Subscribe(),
		currentView: ViewMenu,
	}
	m.loadProjects()

	return m
}

// loadProjects refreshes the cached project list used by the board
// filter and the submission and export forms. A failure leaves the
// previous list in place.
func (m *model) loadProjects() {
	ctx, cancel := view.APICtx()
	defer cancel()

	projects, err := m.gw.ListProjects(ctx)
	if err != nil {
		slog.Warn("failed to load projects", "error", err)
		return
	}

	m.projects = projects
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{view.WaitForChange(m.changes)}

	if m.cfg.Board.RefreshInterval > 0 {
		cmds = append(cmds, m.tickCmd())
	}

	return tea.Batch(cmds...)
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Board.RefreshInterval, func(t time.Time) tea.Msg {
		return view.BoardTickMsg(t)
	})
}

// updateBoard routes a message to the board model regardless of which
// view is on screen, so background refreshes and optimistic store
// changes are never swallowed by another view.
func (m *model) updateBoard(msg tea.Msg) tea.Cmd {
	if !m.boardReady {
		return nil
	}

	newModel, cmd := m.boardView.Update(msg)
	m.boardView = newModel.(view.BoardModel)

	return cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBoard
				m.loadProjects()
				m.boardView = view.NewBoardModel(m.ctrl, m.projects)
				m.boardReady = true

				return m, m.boardView.Init()
			case "2":
				m.currentView = ViewSubmit
				m.loadProjects()
				m.submitView = view.NewSubmitModel(m.gw, m.projects)

				return m, m.submitView.Init()
			case "3":
				m.currentView = ViewArchive
				m.archiveView = view.NewArchiveModel(m.ctrl)

				return m, m.archiveView.Init()
			case "4":
				m.currentView = ViewExport
				m.loadProjects()
				m.exportView = view.NewExportModel(m.ctrl, m.gw, m.projects, m.cfg.Export.Dir)

				return m, m.exportView.Init()
			case "5":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.gw)

				return m, m.projectsView.Init()
			case "6":
				m.currentView = ViewTeam
				m.teamView = view.NewTeamModel(m.gw)

				return m, m.teamView.Init()
			}
		}

	case view.StoreChangedMsg:
		return m, tea.Batch(view.WaitForChange(m.changes), m.updateBoard(msg))

	case view.BoardTickMsg:
		return m, tea.Batch(m.tickCmd(), m.updateBoard(msg))

	case view.OpenDetailMsg:
		m.returnView = m.currentView
		m.currentView = ViewDetail
		m.detailView = view.NewDetailModel(m.ctrl, m.gw, m.cfg.Export.Dir, msg.ID)

		return m, m.detailView.Init()

	case view.BackMsg:
		if m.currentView == ViewDetail {
			m.currentView = m.returnView
			return m, nil
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewBoard:
		var newModel tea.Model
		newModel, cmd = m.boardView.Update(msg)
		m.boardView = newModel.(view.BoardModel)
	case ViewDetail:
		var newModel tea.Model
		newModel, cmd = m.detailView.Update(msg)
		m.detailView = newModel.(view.DetailModel)
	case ViewArchive:
		var newModel tea.Model
		newModel, cmd = m.archiveView.Update(msg)
		m.archiveView = newModel.(view.ArchiveModel)
	case ViewSubmit:
		var newModel tea.Model
		newModel, cmd = m.submitView.Update(msg)
		m.submitView = newModel.(view.SubmitModel)
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewTeam:
		var newModel tea.Model
		newModel, cmd = m.teamView.Update(msg)
		m.teamView = newModel.(view.TeamModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 2, 0)
	helpStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 2, 1)
)

// renderScreen frames a view with its title and keybinding hints.
func renderScreen(v view.View) string {
	out := titleStyle.Render(v.Title()) + "\n" + v.View()

	if help := v.ShortHelp(); help != "" {
		out += "\n" + helpStyle.Render(help)
	}

	return out
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Safina Expense Dashboard\n\n" +
				"1. Expense Board\n" +
				"2. New Expense Request\n" +
				"3. Archive\n" +
				"4. Export Report\n" +
				"5. Projects\n" +
				"6. Team\n\n" +
				"q. Quit",
		)
	case ViewBoard:
		return renderScreen(m.boardView)
	case ViewDetail:
		return renderScreen(m.detailView)
	case ViewArchive:
		return renderScreen(m.archiveView)
	case ViewSubmit:
		return renderScreen(m.submitView)
	case ViewProjects:
		return renderScreen(m.projectsView)
	case ViewTeam:
		return renderScreen(m.teamView)
	case ViewExport:
		return renderScreen(m.exportView)
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
