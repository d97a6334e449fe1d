package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/report"
)

type detailState int

const (
	detailStateView detailState = iota
	detailStateAnnotate
	detailStateComment
)

// DocumentExporter fetches the server-rendered printable document for a
// single request.
type DocumentExporter interface {
	ExportExpenseDocument(ctx context.Context, id, dir string) (string, error)
}

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(14)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	buttonStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	activeButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("205")).
				Bold(true)
)

type DetailModel struct {
	CommonModel
	ctrl      *board.Controller
	docs      DocumentExporter
	exportDir string

	id      string
	req     expense.Request
	found   bool
	targets []expense.Status

	state  detailState
	cursor int
	status string

	form          *huh.Form
	annotation    string
	pendingTarget expense.Status

	commentInput textinput.Model
}

func NewDetailModel(ctrl *board.Controller, docs DocumentExporter, exportDir, id string) DetailModel {
	input := textinput.New()
	input.Placeholder = "Internal comment (admins only)"
	input.CharLimit = 500
	input.Width = 60

	m := DetailModel{
		ctrl:         ctrl,
		docs:         docs,
		exportDir:    exportDir,
		id:           id,
		commentInput: input,
	}
	m.reload()

	return m
}

func (m DetailModel) Title() string {
	if m.found {
		return "Request " + m.req.Code
	}

	return "Request Details"
}

func (m DetailModel) ShortHelp() string {
	switch m.state {
	case detailStateView:
		return "←/→ action | enter: apply | i: internal comment | d: save document | D: download from server | esc: back"
	case detailStateAnnotate:
		return "Esc: cancel | Enter: submit"
	case detailStateComment:
		return "Esc: cancel | Enter: save"
	}

	return ""
}

func (m *DetailModel) reload() {
	req, ok := m.ctrl.Store().Get(m.id)
	m.req = req
	m.found = ok

	if ok {
		m.targets = expense.ActionTargets(req.Status)
		if m.cursor >= len(m.targets) {
			m.cursor = 0
		}
	}
}

func (m DetailModel) Init() tea.Cmd { return nil }

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case movedMsg:
		m.reload()

		if msg.err != nil {
			m.status = moveErrorMessage(msg.err)
		} else {
			m.status = fmt.Sprintf("Moved to %s.", msg.target.Label())
		}

		return m, nil

	case commentSavedMsg:
		m.reload()

		if msg.err != nil {
			m.status = errorStyle.Render("Failed to save the internal comment.")
		} else {
			m.status = "Internal comment saved."
		}

		return m, nil

	case documentSavedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Document export failed: " + msg.err.Error())
		} else {
			m.status = "Document saved to " + msg.path
		}

		return m, nil
	}

	switch m.state {
	case detailStateView:
		return m.updateView(msg)
	case detailStateAnnotate:
		return m.updateAnnotate(msg)
	case detailStateComment:
		return m.updateComment(msg)
	}

	return m, nil
}

func (m DetailModel) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
	case "enter":
		return m.applyAction()
	case "i":
		if !m.found {
			return m, nil
		}

		m.commentInput.SetValue(m.req.InternalComment)
		m.commentInput.Focus()
		m.state = detailStateComment

		return m, textinput.Blink
	case "d":
		if !m.found {
			return m, nil
		}

		return m, m.saveLocalDocumentCmd()
	case "D":
		if !m.found {
			return m, nil
		}

		return m, m.downloadDocumentCmd()
	}

	return m, nil
}

func (m DetailModel) applyAction() (tea.Model, tea.Cmd) {
	if !m.found || len(m.targets) == 0 {
		return m, nil
	}

	target := m.targets[m.cursor]

	dec := expense.Transition(m.req.Status, target)
	switch dec.Kind {
	case expense.Rejected:
		m.status = errorStyle.Render(dec.Reason)
		return m, nil

	case expense.RequiresAnnotation:
		m.pendingTarget = target
		m.annotation = ""
		m.form = m.buildAnnotationForm(target)
		m.state = detailStateAnnotate

		return m, m.form.Init()
	}

	return m, m.moveCmd(target, "")
}

func (m DetailModel) updateAnnotate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = detailStateView
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	annotation := m.form.GetString("comment")
	m.state = detailStateView
	m.form = nil

	return m, m.moveCmd(m.pendingTarget, annotation)
}

func (m DetailModel) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = detailStateView
			m.commentInput.Blur()

			return m, nil

		case tea.KeyEnter:
			m.state = detailStateView
			m.commentInput.Blur()

			return m, m.saveCommentCmd(m.commentInput.Value())
		}
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)

	return m, cmd
}

func (m DetailModel) buildAnnotationForm(target expense.Status) *huh.Form {
	title := "Comment for revision"
	if target == expense.StatusDeclined {
		title = "Reason for declining"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("comment").
				Title(title).
				Description("Required. The submitter will be notified.").
				Value(&m.annotation).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("comment cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m DetailModel) View() string {
	if !m.found {
		return lipgloss.NewStyle().Padding(2).Render("Request not found. It may have been removed on the server.")
	}

	switch m.state {
	case detailStateAnnotate:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case detailStateComment:
		return lipgloss.NewStyle().Padding(1).Render(
			sectionStyle.Render("Internal comment") + "\n\n" + m.commentInput.View(),
		)
	}

	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}

	row("Code", m.req.Code)
	row("Status", m.req.Status.Label())
	row("Project", fmt.Sprintf("%s (%s)", m.req.ProjectName, m.req.ProjectCode))
	row("Requested by", m.req.CreatedBy)
	row("Date", FormatDateTime(m.req.Date))
	row("Purpose", m.req.Purpose)
	row("Total", FormatMoney(m.req.TotalAmount, m.req.Currency))

	if m.req.StatusComment != "" {
		row("Comment", m.req.StatusComment)
	}

	if m.req.InternalComment != "" {
		row("Internal", m.req.InternalComment)
	}

	b.WriteString(sectionStyle.Render("Items") + "\n")

	for i, item := range m.req.Items {
		b.WriteString(fmt.Sprintf("%2d. %-30s x%-4d %s\n",
			i+1, item.Name, item.Quantity, FormatMoney(item.Subtotal(), item.Currency)))
	}

	b.WriteString(sectionStyle.Render("Move to") + "\n")

	buttons := make([]string, 0, len(m.targets))
	for i, target := range m.targets {
		style := buttonStyle
		if i == m.cursor {
			style = activeButtonStyle
		}

		buttons = append(buttons, style.Render(target.Label()))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	if state := m.ctrl.State(m.id); state.Phase != board.PhaseSettled {
		b.WriteString("\n" + pendingStyle.Render("committing..."))
	}

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Commands

func (m DetailModel) moveCmd(target expense.Status, annotation string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		err := m.ctrl.Move(ctx, m.id, target, annotation)

		return movedMsg{id: m.id, target: target, err: err}
	}
}

type commentSavedMsg struct {
	err error
}

func (m DetailModel) saveCommentCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		return commentSavedMsg{err: m.ctrl.SaveInternalComment(ctx, m.id, text)}
	}
}

type documentSavedMsg struct {
	path string
	err  error
}

// saveLocalDocumentCmd renders the printable document from the local
// record, without a round trip.
func (m DetailModel) saveLocalDocumentCmd() tea.Cmd {
	req := m.req

	return func() tea.Msg {
		if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
			return documentSavedMsg{err: err}
		}

		path := filepath.Join(m.exportDir, fmt.Sprintf("expense_%s.pdf", req.Code))

		f, err := os.Create(path)
		if err != nil {
			return documentSavedMsg{err: err}
		}
		defer f.Close()

		if err := report.WriteExpenseDocument(f, req); err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{path: path}
	}
}

func (m DetailModel) downloadDocumentCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		path, err := m.docs.ExportExpenseDocument(ctx, m.id, m.exportDir)

		return documentSavedMsg{path: path, err: err}
	}
}
