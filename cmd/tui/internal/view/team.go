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
	"github.com/safina-app/safina/internal/team"
)

type teamState int

const (
	teamStateLoading teamState = iota
	teamStateList
	teamStateCreate
	teamStateConfirmDelete
)

// TeamGateway is the gateway slice the team page depends on.
type TeamGateway interface {
	ListTeam(ctx context.Context) ([]team.Member, error)
	CreateTeamMember(ctx context.Context, params team.CreateParams) (team.Member, error)
	DeleteTeamMember(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]project.Project, error)
}

type TeamModel struct {
	CommonModel
	gw TeamGateway

	state    teamState
	members  []team.Member
	projects []project.Project
	cursor   int
	status   string

	form          *huh.Form
	lastName      string
	firstName     string
	position      string
	login         string
	password      string
	projectIDs    []string
	confirmDelete bool
}

func NewTeamModel(gw TeamGateway) TeamModel {
	return TeamModel{gw: gw, state: teamStateLoading}
}

func (m TeamModel) Title() string { return "Team" }

func (m TeamModel) ShortHelp() string {
	switch m.state {
	case teamStateList:
		return "↑/↓ select | n: new member | x: delete | esc: back"
	case teamStateCreate, teamStateConfirmDelete:
		return "Esc: cancel | Enter: confirm"
	}

	return ""
}

func (m TeamModel) Init() tea.Cmd { return m.loadCmd() }

func (m TeamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case teamLoadedMsg:
		m.state = teamStateList

		if msg.err != nil {
			m.status = errorStyle.Render("Failed to load the team.")
			return m, nil
		}

		m.members = msg.members
		m.projects = msg.projects
		if m.cursor >= len(m.members) {
			m.cursor = 0
		}

		return m, nil

	case teamMutatedMsg:
		if msg.err != nil {
			m.state = teamStateList
			m.status = errorStyle.Render(msg.verb + " failed: " + msg.err.Error())

			return m, nil
		}

		m.status = msg.verb + " succeeded."

		return m, m.loadCmd()
	}

	switch m.state {
	case teamStateList:
		return m.updateList(msg)
	case teamStateCreate, teamStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TeamModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.cursor < len(m.members)-1 {
			m.cursor++
		}
	case "n":
		m.resetCreateBindings()
		m.form = m.buildCreateForm()
		m.state = teamStateCreate

		return m, m.form.Init()
	case "x":
		if len(m.members) == 0 {
			return m, nil
		}

		m.confirmDelete = false
		m.form = m.buildDeleteForm(m.members[m.cursor])
		m.state = teamStateConfirmDelete

		return m, m.form.Init()
	}

	return m, nil
}

func (m *TeamModel) resetCreateBindings() {
	m.lastName = ""
	m.firstName = ""
	m.position = ""
	m.login = ""
	m.password = ""
	m.projectIDs = nil
}

func (m TeamModel) buildCreateForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(m.projects))
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Code), p.ID))
	}

	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(field + " cannot be empty")
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("last_name").
				Title("Last name").
				Value(&m.lastName).
				Validate(required("last name")),

			huh.NewInput().
				Key("first_name").
				Title("First name").
				Value(&m.firstName).
				Validate(required("first name")),

			huh.NewInput().
				Key("position").
				Title("Position").
				Value(&m.position),

			huh.NewMultiSelect[string]().
				Key("projects").
				Title("Projects").
				Options(opts...).
				Value(&m.projectIDs),

			huh.NewInput().
				Key("login").
				Title("Login").
				Value(&m.login).
				Validate(required("login")),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password")),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m TeamModel) buildDeleteForm(member team.Member) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s?", member.FullName())).
				Description("Their submitted requests stay on the board.").
				Value(&m.confirmDelete),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m TeamModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = teamStateList
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

	creating := m.state == teamStateCreate
	done := m.form
	m.state = teamStateList
	m.form = nil

	if creating {
		projectIDs, _ := done.Get("projects").([]string)

		params := team.CreateParams{
			LastName:   strings.TrimSpace(done.GetString("last_name")),
			FirstName:  strings.TrimSpace(done.GetString("first_name")),
			Position:   strings.TrimSpace(done.GetString("position")),
			ProjectIDs: projectIDs,
			Login:      strings.TrimSpace(done.GetString("login")),
			Password:   done.GetString("password"),
		}

		return m, m.createCmd(params)
	}

	if !done.GetBool("confirm") {
		return m, nil
	}

	return m, m.deleteCmd(m.members[m.cursor].ID)
}

func (m TeamModel) View() string {
	switch m.state {
	case teamStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading team...")

	case teamStateCreate, teamStateConfirmDelete:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	if len(m.members) == 0 {
		b.WriteString("No team members yet. Press n to add one.\n")
	}

	for i, member := range m.members {
		prefix := "  "
		position := member.Position
		if position == "" {
			position = "Employee"
		}

		line := fmt.Sprintf("%-30s %-20s %s", member.FullName(), position, member.Login)
		if member.Status == team.StatusBlocked {
			line += "  [blocked]"
		}

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

type teamLoadedMsg struct {
	members  []team.Member
	projects []project.Project
	err      error
}

func (m TeamModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		members, err := m.gw.ListTeam(ctx)
		if err != nil {
			return teamLoadedMsg{err: err}
		}

		projects, err := m.gw.ListProjects(ctx)
		if err != nil {
			return teamLoadedMsg{err: err}
		}

		return teamLoadedMsg{members: members, projects: projects}
	}
}

type teamMutatedMsg struct {
	verb string
	err  error
}

func (m TeamModel) createCmd(params team.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		_, err := m.gw.CreateTeamMember(ctx, params)

		return teamMutatedMsg{verb: "Create", err: err}
	}
}

func (m TeamModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		return teamMutatedMsg{verb: "Delete", err: m.gw.DeleteTeamMember(ctx, id)}
	}
}
