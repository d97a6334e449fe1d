package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/board"
	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
)

type archiveItem struct {
	req expense.Request
}

func (i archiveItem) FilterValue() string { return i.req.Code }

type archiveDelegate struct{}

func (d archiveDelegate) Height() int  { return 2 }
func (d archiveDelegate) Spacing() int { return 1 }

func (d archiveDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d archiveDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(archiveItem)
	if !ok {
		return
	}

	title := fmt.Sprintf("%s  %s", item.req.Code, FormatMoney(item.req.TotalAmount, item.req.Currency))
	desc := fmt.Sprintf("%s | %s | %s", item.req.ProjectCode, item.req.CreatedBy, FormatDate(item.req.Date))

	style := lipgloss.NewStyle().PaddingLeft(2)
	if index == m.Index() {
		style = style.PaddingLeft(0).
			Foreground(lipgloss.Color("205")).
			SetString("> ")
	}

	fmt.Fprintf(w, "%s\n%s", style.Render(title), style.Render(pendingStyle.Render(desc)))
}

type ArchiveModel struct {
	CommonModel
	ctrl *board.Controller

	list   list.Model
	status string
}

func NewArchiveModel(ctrl *board.Controller) ArchiveModel {
	l := list.New(nil, archiveDelegate{}, 0, 0)
	l.Title = "Archived Requests"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	m := ArchiveModel{ctrl: ctrl, list: l}
	m.reload()

	return m
}

func (m ArchiveModel) Title() string { return "Archive" }

func (m ArchiveModel) ShortHelp() string {
	return "↑/↓ select | enter: details | u: restore to request | /: search | esc: back"
}

func (m *ArchiveModel) reload() {
	f := filter.Filter{Project: filter.ProjectAll, Scope: filter.ScopeArchive}

	items := []list.Item{}
	for _, req := range f.Apply(m.ctrl.Store().List()) {
		items = append(items, archiveItem{req: req})
	}

	m.list.SetItems(items)
}

func (m ArchiveModel) Init() tea.Cmd { return nil }

func (m ArchiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)

		return m, nil

	case movedMsg:
		m.reload()

		if msg.err != nil {
			m.status = moveErrorMessage(msg.err)
		} else {
			m.status = "Restored to request."
		}

		return m, nil

	case tea.KeyMsg:
		// Let the list's own search input swallow keys while filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if item, ok := m.list.SelectedItem().(archiveItem); ok {
				return m, OpenDetail(item.req.ID)
			}
		case "u":
			if item, ok := m.list.SelectedItem().(archiveItem); ok {
				return m, m.restoreCmd(item.req.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ArchiveModel) restoreCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		err := m.ctrl.Move(ctx, id, expense.StatusRequest, "")

		return movedMsg{id: id, target: expense.StatusRequest, err: err}
	}
}

func (m ArchiveModel) View() string {
	out := m.list.View()

	if m.status != "" {
		out += "\n" + m.status
	}

	return lipgloss.NewStyle().Padding(1).Render(out)
}
