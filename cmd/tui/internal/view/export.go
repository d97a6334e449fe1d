package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/filter"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/project"
	"github.com/safina-app/safina/internal/report"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateRunning
	exportStateDone
)

const (
	exportSourceLocal  = "local"
	exportSourceServer = "server"
)

// CSVExporter is the gateway slice for the server-side export path.
type CSVExporter interface {
	ExportExpensesCSV(ctx context.Context, q gateway.CSVExportQuery, dir string) (string, error)
}

type ExportModel struct {
	CommonModel
	ctrl      *board.Controller
	gw        CSVExporter
	projects  []project.Project
	exportDir string

	state   exportState
	spinner spinner.Model
	status  string
	path    string

	form        *huh.Form
	source      string
	projectID   string
	fromStr     string
	toStr       string
	allStatuses bool
}

func NewExportModel(ctrl *board.Controller, gw CSVExporter, projects []project.Project, exportDir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := ExportModel{
		ctrl:      ctrl,
		gw:        gw,
		projects:  projects,
		exportDir: exportDir,
		spinner:   s,
		source:    exportSourceLocal,
		projectID: filter.ProjectAll,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "CSV Export" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateDone:
		return "Enter/Esc: back"
	case exportStateRunning:
		return ""
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m ExportModel) buildForm() *huh.Form {
	opts := []huh.Option[string]{huh.NewOption("All projects", filter.ProjectAll)}
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Code), p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("source").
				Title("Source").
				Options(
					huh.NewOption("Build from current board data", exportSourceLocal),
					huh.NewOption("Download from the server", exportSourceServer),
				).
				Value(&m.source),

			huh.NewSelect[string]().
				Key("project").
				Title("Project").
				Options(opts...).
				Value(&m.projectID),

			huh.NewInput().
				Key("from").
				Title("From (YYYY-MM-DD, optional)").
				Value(&m.fromStr).
				Validate(func(s string) error {
					_, err := ParseDate(strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("to").
				Title("To (YYYY-MM-DD, optional)").
				Value(&m.toStr).
				Validate(func(s string) error {
					_, err := ParseDate(strings.TrimSpace(s))
					return err
				}),

			huh.NewConfirm().
				Key("all").
				Title("Include every status?").
				Description("Off exports confirmed requests only.").
				Value(&m.allStatuses),
		),
	).WithWidth(55).WithShowHelp(false)
}

func (m ExportModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.spinner.Tick)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case exportDoneMsg:
		m.state = exportStateDone

		if msg.err != nil {
			m.status = errorStyle.Render("Export failed: " + msg.err.Error())
		} else {
			m.path = msg.path
			m.status = ""
		}

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != exportStateRunning {
			return m, Back
		}

		if m.state == exportStateDone && msg.Type == tea.KeyEnter {
			return m, Back
		}
	}

	if m.state != exportStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.projectID = m.form.GetString("project")
	m.allStatuses = m.form.GetBool("all")
	from, _ := ParseDate(strings.TrimSpace(m.form.GetString("from")))
	to, _ := ParseDate(strings.TrimSpace(m.form.GetString("to")))

	m.state = exportStateRunning

	if m.form.GetString("source") == exportSourceServer {
		return m, m.serverExportCmd(from, to)
	}

	return m, m.localExportCmd(from, to)
}

type exportDoneMsg struct {
	path string
	err  error
}

// localExportCmd renders the report from the in-memory collection. The
// filter spans live and archived records so the all-statuses report can
// include the archive.
func (m ExportModel) localExportCmd(from, to *time.Time) tea.Cmd {
	f := filter.Filter{
		Project: m.projectID,
		From:    from,
		To:      to,
		Scope:   filter.ScopeAll,
	}
	matched := f.Apply(m.ctrl.Store().List())
	opts := report.CSVOptions{AllStatuses: m.allStatuses}

	return func() tea.Msg {
		if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
			return exportDoneMsg{err: err}
		}

		name := fmt.Sprintf("expenses_%s.csv", time.Now().Format("20060102_150405"))
		path := filepath.Join(m.exportDir, name)

		out, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer out.Close()

		if err := report.WriteExpensesCSV(out, matched, opts); err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{path: path}
	}
}

func (m ExportModel) serverExportCmd(from, to *time.Time) tea.Cmd {
	q := gateway.CSVExportQuery{
		Project:     m.projectID,
		From:        from,
		To:          to,
		AllStatuses: m.allStatuses,
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		path, err := m.gw.ExportExpensesCSV(ctx, q, m.exportDir)

		return exportDoneMsg{path: path, err: err}
	}
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateRunning:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Exporting...", m.spinner.View()),
		)

	case exportStateDone:
		if m.status != "" {
			return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\nPress Enter to return.")
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Report saved to " + m.path + "\n\nPress Enter to return.",
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}
