package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/project"
)

type projectsState int

const (
	projectsStateLoading projectsState = iota
	projectsStateList
	projectsStateCreate
	projectsStateConfirmDelete
)

// ProjectGateway is the gateway slice the projects page depends on.
type ProjectGateway interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	CreateProject(ctx context.Context, name, code string) (project.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type ProjectsModel struct {
	CommonModel
	gw ProjectGateway

	state    projectsState
	projects []project.Project
	cursor   int
	status   string

	form          *huh.Form
	name          string
	code          string
	confirmDelete bool
}

func NewProjectsModel(gw ProjectGateway) ProjectsModel {
	return ProjectsModel{gw: gw, state: projectsStateLoading}
}

func (m ProjectsModel) Title() string { return "Projects" }

func (m ProjectsModel) ShortHelp() string {
	switch m.state {
	case projectsStateList:
		return "↑/↓ select | n: new project | x: delete | esc: back"
	case projectsStateCreate, projectsStateConfirmDelete:
		return "Esc: cancel | Enter: confirm"
	}

	return ""
}

func (m ProjectsModel) Init() tea.Cmd { return m.loadCmd() }

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case projectsLoadedMsg:
		m.state = projectsStateList

		if msg.err != nil {
			m.status = errorStyle.Render("Failed to load projects.")
			return m, nil
		}

		m.projects = msg.projects
		if m.cursor >= len(m.projects) {
			m.cursor = 0
		}

		return m, nil

	case projectMutatedMsg:
		if msg.err != nil {
			m.state = projectsStateList
			m.status = errorStyle.Render(msg.verb + " failed: " + msg.err.Error())

			return m, nil
		}

		m.status = msg.verb + " succeeded."

		return m, m.loadCmd()
	}

	switch m.state {
	case projectsStateList:
		return m.updateList(msg)
	case projectsStateCreate:
		return m.updateCreate(msg)
	case projectsStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m ProjectsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "n":
		m.name = ""
		m.code = ""
		m.form = m.buildCreateForm()
		m.state = projectsStateCreate

		return m, m.form.Init()
	case "x":
		if len(m.projects) == 0 {
			return m, nil
		}

		m.confirmDelete = false
		m.form = m.buildDeleteForm(m.projects[m.cursor])
		m.state = projectsStateConfirmDelete

		return m, m.form.Init()
	}

	return m, nil
}

func (m ProjectsModel) buildCreateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Project name").
				Value(&m.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("code").
				Title("Code (used as the request number prefix)").
				Value(&m.code).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("code cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ProjectsModel) buildDeleteForm(p project.Project) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete project %s (%s)?", p.Name, p.Code)).
				Description("Existing requests keep their project reference.").
				Value(&m.confirmDelete),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ProjectsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = projectsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	name := strings.TrimSpace(m.form.GetString("name"))
	code := strings.ToUpper(strings.TrimSpace(m.form.GetString("code")))

	m.state = projectsStateList
	m.form = nil

	return m, m.createCmd(name, code)
}

func (m ProjectsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = projectsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.form.GetBool("confirm")
	m.state = projectsStateList
	m.form = nil

	if !confirmed {
		return m, nil
	}

	return m, m.deleteCmd(m.projects[m.cursor].ID)
}

func (m ProjectsModel) View() string {
	switch m.state {
	case projectsStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading projects...")

	case projectsStateCreate, projectsStateConfirmDelete:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	if len(m.projects) == 0 {
		b.WriteString("No projects yet. Press n to create one.\n")
	}

	for i, p := range m.projects {
		prefix := "  "
		line := fmt.Sprintf("%s (%s), %d member(s)", p.Name, p.Code, len(p.Members))

		if i == m.cursor {
			prefix = "> "
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(line)
		}

		b.WriteString(prefix + line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Commands

type projectsLoadedMsg struct {
	projects []project.Project
	err      error
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		projects, err := m.gw.ListProjects(ctx)

		return projectsLoadedMsg{projects: projects, err: err}
	}
}

type projectMutatedMsg struct {
	verb string
	err  error
}

func (m ProjectsModel) createCmd(name, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		_, err := m.gw.CreateProject(ctx, name, code)

		return projectMutatedMsg{verb: "Create", err: err}
	}
}

func (m ProjectsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		return projectMutatedMsg{verb: "Delete", err: m.gw.DeleteProject(ctx, id)}
	}
}
