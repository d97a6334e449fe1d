package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
	"github.com/safina-app/safina/internal/project"
)

type boardState int

const (
	boardStateLoading boardState = iota
	boardStateBoard
	boardStateAnnotate
	boardStateFilter
)

var (
	columnHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cardStyle         = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("205"))
	pendingStyle = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	columnColors = map[expense.Status]lipgloss.Color{
		expense.StatusRequest:   lipgloss.Color("214"),
		expense.StatusReview:    lipgloss.Color("39"),
		expense.StatusConfirmed: lipgloss.Color("46"),
		expense.StatusDeclined:  lipgloss.Color("196"),
		expense.StatusRevision:  lipgloss.Color("208"),
	}
)

type BoardModel struct {
	CommonModel
	ctrl     *board.Controller
	projects []project.Project

	state boardState
	cols  []board.Column

	colCursor  int
	cardCursor int
	collapsed  map[expense.Status]bool

	flt    filter.Filter
	status string

	spinner spinner.Model

	// annotation dialog state; the drag itself is treated as cancelled
	// until the form is submitted
	form          *huh.Form
	annotation    string
	pendingID     string
	pendingTarget expense.Status

	// filter dialog bindings
	fltForm    *huh.Form
	fltProject string
	fltFrom    string
	fltTo      string
	fltQuery   string
}

func NewBoardModel(ctrl *board.Controller, projects []project.Project) BoardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return BoardModel{
		ctrl:       ctrl,
		projects:   projects,
		state:      boardStateLoading,
		collapsed:  make(map[expense.Status]bool),
		flt:        filter.Filter{Project: filter.ProjectAll},
		fltProject: filter.ProjectAll,
		spinner:    s,
	}
}

func (m BoardModel) Title() string { return "Expense Board" }

func (m BoardModel) ShortHelp() string {
	switch m.state {
	case boardStateBoard:
		return "←/→ column | ↑/↓ card | 1-5: move | a: archive | enter: details | c: collapse | f: filter | r: refresh | esc: back"
	case boardStateAnnotate, boardStateFilter:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case refreshedMsg:
		if m.state == boardStateLoading {
			m.state = boardStateBoard
		}

		if msg.err != nil {
			// The previous snapshot stays on screen; only a retry
			// affordance is surfaced.
			m.status = "Refresh failed, showing last known data. Press r to retry."
		} else {
			m.status = ""
		}

		m.reloadColumns()

		return m, nil

	case movedMsg:
		m.reloadColumns()

		if msg.err != nil {
			m.status = moveErrorMessage(msg.err)
		} else {
			m.status = fmt.Sprintf("Moved to %s.", msg.target.Label())
		}

		return m, nil

	case StoreChangedMsg:
		// Every store mutation lands here, including the optimistic
		// re-bucket that happens before a commit returns.
		if m.state != boardStateLoading {
			m.reloadColumns()
		}

		return m, nil

	case BoardTickMsg:
		// A periodic refetch may race an in-flight commit; the last
		// writer wins for that record, which is acceptable here.
		return m, m.refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case boardStateBoard:
		return m.updateBoard(msg)
	case boardStateAnnotate:
		return m.updateAnnotate(msg)
	case boardStateFilter:
		return m.updateFilter(msg)
	}

	return m, nil
}

func (m BoardModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		if m.colCursor > 0 {
			m.colCursor--
			m.clampCardCursor()
		}
	case "right", "l":
		if m.colCursor < len(m.cols)-1 {
			m.colCursor++
			m.clampCardCursor()
		}
	case "up", "k":
		if m.cardCursor > 0 {
			m.cardCursor--
		}
	case "down", "j":
		if m.cardCursor < len(m.currentCards())-1 {
			m.cardCursor++
		}
	case "c":
		if len(m.cols) > 0 {
			status := m.cols[m.colCursor].Status
			m.collapsed[status] = !m.collapsed[status]
		}
	case "r":
		return m, m.refreshCmd()
	case "f":
		return m.openFilter()
	case "enter":
		if card, ok := m.selectedCard(); ok {
			return m, OpenDetail(card.ID)
		}
	case "a":
		return m.startMove(expense.StatusArchived)
	case "1", "2", "3", "4", "5":
		idx := int(keyMsg.String()[0] - '1')
		if idx < len(expense.KanbanStatuses) {
			return m.startMove(expense.KanbanStatuses[idx])
		}
	}

	return m, nil
}

// startMove runs the decision step of the drag protocol. A rejected
// move never leaves this function; a move that needs an annotation
// opens the dialog with the board untouched.
func (m BoardModel) startMove(target expense.Status) (tea.Model, tea.Cmd) {
	card, ok := m.selectedCard()
	if !ok {
		return m, nil
	}

	dec, err := m.ctrl.Decide(card.ID, target)
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}

	switch dec.Kind {
	case expense.Rejected:
		m.status = errorStyle.Render(fmt.Sprintf("Cannot move %s to %s: %s", card.Code, target.Label(), dec.Reason))
		return m, nil

	case expense.RequiresAnnotation:
		m.pendingID = card.ID
		m.pendingTarget = target
		m.annotation = ""
		m.form = m.buildAnnotationForm(target)
		m.state = boardStateAnnotate

		return m, m.form.Init()
	}

	return m, m.moveCmd(card.ID, target, "")
}

func (m BoardModel) updateAnnotate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = boardStateBoard
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
	m.state = boardStateBoard
	m.form = nil

	return m, m.moveCmd(m.pendingID, m.pendingTarget, annotation)
}

func (m BoardModel) openFilter() (tea.Model, tea.Cmd) {
	// Seed the dialog with the filter currently in effect.
	m.fltProject = m.flt.Project
	if m.fltProject == "" {
		m.fltProject = filter.ProjectAll
	}

	m.fltFrom = ""
	if m.flt.From != nil {
		m.fltFrom = FormatDate(*m.flt.From)
	}

	m.fltTo = ""
	if m.flt.To != nil {
		m.fltTo = FormatDate(*m.flt.To)
	}

	m.fltQuery = m.flt.Query

	opts := []huh.Option[string]{huh.NewOption("All projects", filter.ProjectAll)}
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Code), p.ID))
	}

	m.fltForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("project").
				Title("Project").
				Options(opts...).
				Value(&m.fltProject),

			huh.NewInput().
				Key("from").
				Title("From (YYYY-MM-DD, optional)").
				Value(&m.fltFrom),

			huh.NewInput().
				Key("to").
				Title("To (YYYY-MM-DD, optional)").
				Value(&m.fltTo),

			huh.NewInput().
				Key("query").
				Title("Request code contains").
				Value(&m.fltQuery),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = boardStateFilter

	return m, m.fltForm.Init()
}

func (m BoardModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = boardStateBoard
			m.fltForm = nil

			return m, nil
		}
	}

	form, cmd := m.fltForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.fltForm = f
	}

	if m.fltForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = boardStateBoard

	projectID := m.fltForm.GetString("project")
	from, errFrom := ParseDate(strings.TrimSpace(m.fltForm.GetString("from")))
	to, errTo := ParseDate(strings.TrimSpace(m.fltForm.GetString("to")))
	query := strings.TrimSpace(m.fltForm.GetString("query"))
	m.fltForm = nil

	if errFrom != nil || errTo != nil {
		m.status = errorStyle.Render("Invalid date in filter, use YYYY-MM-DD.")
		return m, nil
	}

	m.flt = filter.Filter{
		Project: projectID,
		From:    from,
		To:      to,
		Query:   query,
	}
	m.status = ""
	m.reloadColumns()

	return m, nil
}

func (m BoardModel) buildAnnotationForm(target expense.Status) *huh.Form {
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

func (m *BoardModel) reloadColumns() {
	m.cols = m.ctrl.Columns(m.flt)
	m.clampCardCursor()
}

func (m *BoardModel) clampCardCursor() {
	cards := m.currentCards()
	if m.cardCursor >= len(cards) {
		m.cardCursor = len(cards) - 1
	}

	if m.cardCursor < 0 {
		m.cardCursor = 0
	}
}

func (m BoardModel) currentCards() []expense.Request {
	if m.colCursor >= len(m.cols) {
		return nil
	}

	return m.cols[m.colCursor].Cards
}

func (m BoardModel) selectedCard() (expense.Request, bool) {
	cards := m.currentCards()
	if len(cards) == 0 || m.cardCursor >= len(cards) {
		return expense.Request{}, false
	}

	return cards[m.cardCursor], true
}

func (m BoardModel) View() string {
	switch m.state {
	case boardStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Loading expenses...", m.spinner.View()),
		)

	case boardStateAnnotate:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case boardStateFilter:
		if m.fltForm == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.fltForm.View())
	}

	rendered := make([]string, 0, len(m.cols))
	for i, col := range m.cols {
		rendered = append(rendered, m.renderColumn(col, i == m.colCursor))
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	statusLine := ""
	if m.status != "" {
		statusLine = "\n" + m.status
	}

	return lipgloss.NewStyle().Padding(1).Render(boardView + statusLine)
}

func (m BoardModel) renderColumn(col board.Column, active bool) string {
	header := columnHeaderStyle.
		Foreground(columnColors[col.Status]).
		Render(fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Cards)))

	if active {
		header = "» " + header
	} else {
		header = "  " + header
	}

	if m.collapsed[col.Status] {
		return lipgloss.NewStyle().Margin(0, 1).Render(header)
	}

	parts := []string{header}

	for i, card := range col.Cards {
		selected := active && i == m.cardCursor
		parts = append(parts, m.renderCard(card, selected))
	}

	if len(col.Cards) == 0 {
		parts = append(parts, pendingStyle.Render("  (empty)"))
	}

	return lipgloss.NewStyle().Margin(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m BoardModel) renderCard(card expense.Request, selected bool) string {
	body := fmt.Sprintf("%s\n%s\n%s", card.Code, FormatMoney(card.TotalAmount, card.Currency), card.CreatedBy)

	if state := m.ctrl.State(card.ID); state.Phase != board.PhaseSettled {
		body += "\n" + pendingStyle.Render("committing...")
	} else if state.Err != nil {
		body += "\n" + errorStyle.Render("move failed")
	}

	if selected {
		return selectedCardStyle.Render(body)
	}

	return cardStyle.Render(body)
}

func moveErrorMessage(err error) string {
	var verr *expense.ValidationError
	if errors.As(err, &verr) {
		return errorStyle.Render("A comment is required for this status.")
	}

	var terr *expense.TransitionError
	if errors.As(err, &terr) {
		return errorStyle.Render(terr.Error())
	}

	if errors.Is(err, board.ErrMoveInFlight) {
		return errorStyle.Render("This card is still being updated, try again in a moment.")
	}

	return errorStyle.Render("Status update failed, the move was undone.")
}

// Messages

type refreshedMsg struct {
	err error
}

func (m BoardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		return refreshedMsg{err: m.ctrl.Refresh(ctx)}
	}
}

type movedMsg struct {
	id     string
	target expense.Status
	err    error
}

func (m BoardModel) moveCmd(id string, target expense.Status, annotation string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		err := m.ctrl.Move(ctx, id, target, annotation)

		return movedMsg{id: id, target: target, err: err}
	}
}

// BoardTickMsg asks the board to refetch the collection. The shell owns
// the ticker so the chain survives while other views are open.
type BoardTickMsg time.Time

// StoreChangedMsg signals a store mutation. The shell waits on the
// subscription channel and routes this to the board from any view.
type StoreChangedMsg struct{}

// WaitForChange blocks on a store subscription channel and converts the
// next signal into a StoreChangedMsg. The caller re-arms it after every
// delivery.
func WaitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return StoreChangedMsg{}
	}
}
