package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/gateway"
	"github.com/safina-app/safina/internal/project"
)

type submitState int

const (
	submitStateHeader submitState = iota
	submitStateItem
	submitStateSubmitting
	submitStateDone
)

// ExpenseCreator is the gateway slice the submission form depends on.
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, params gateway.CreateExpenseParams) (expense.Request, error)
}

type SubmitModel struct {
	CommonModel
	gw       ExpenseCreator
	projects []project.Project

	state   submitState
	spinner spinner.Model
	status  string
	created expense.Request

	form *huh.Form

	// header bindings
	purpose   string
	projectID string
	dateStr   string

	// item bindings
	items        []expense.Item
	itemName     string
	itemQty      string
	itemAmount   string
	itemCurrency string
	addAnother   bool
}

func NewSubmitModel(gw ExpenseCreator, projects []project.Project) SubmitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := SubmitModel{
		gw:       gw,
		projects: projects,
		state:    submitStateHeader,
		spinner:  s,
	}
	m.form = m.buildHeaderForm()

	return m
}

func (m SubmitModel) Title() string { return "New Expense Request" }

func (m SubmitModel) ShortHelp() string {
	switch m.state {
	case submitStateDone:
		return "Enter/Esc: back"
	case submitStateSubmitting:
		return ""
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m SubmitModel) buildHeaderForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(m.projects))
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Code), p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("project").
				Title("Project").
				Options(opts...).
				Value(&m.projectID),

			huh.NewInput().
				Key("purpose").
				Title("Purpose").
				Value(&m.purpose).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("purpose cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Needed by (YYYY-MM-DD, optional)").
				Value(&m.dateStr).
				Validate(func(s string) error {
					_, err := ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SubmitModel) buildItemForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title(fmt.Sprintf("Item %d name", len(m.items)+1)).
				Value(&m.itemName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("qty").
				Title("Quantity").
				Value(&m.itemQty).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return errors.New("quantity must be a positive whole number")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Unit amount").
				Value(&m.itemAmount).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return errors.New("amount must be a positive number")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Options(
					huh.NewOption("UZS", string(expense.CurrencyUZS)),
					huh.NewOption("USD", string(expense.CurrencyUSD)),
				).
				Value(&m.itemCurrency),

			huh.NewConfirm().
				Key("more").
				Title("Add another item?").
				Value(&m.addAnother),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SubmitModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.spinner.Tick)
}

func (m SubmitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case expenseCreatedMsg:
		if msg.err != nil {
			// Drop back to the item stage so nothing typed so far is lost.
			m.state = submitStateItem
			m.status = errorStyle.Render("Submission failed: " + msg.err.Error())
			m.form = m.buildItemForm()

			return m, m.form.Init()
		}

		m.state = submitStateDone
		m.created = msg.req

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != submitStateSubmitting {
			return m, Back
		}

		if m.state == submitStateDone && msg.Type == tea.KeyEnter {
			return m, Back
		}
	}

	switch m.state {
	case submitStateHeader, submitStateItem:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m SubmitModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == submitStateHeader {
		m.projectID = m.form.GetString("project")
		m.purpose = m.form.GetString("purpose")
		m.dateStr = m.form.GetString("date")

		m.state = submitStateItem
		m.resetItemBindings()
		m.form = m.buildItemForm()

		return m, m.form.Init()
	}

	// Item form completed; validators guarantee the fields parse.
	qty, _ := strconv.Atoi(strings.TrimSpace(m.form.GetString("qty")))
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.form.GetString("amount")), 64)

	m.items = append(m.items, expense.Item{
		Name:     strings.TrimSpace(m.form.GetString("name")),
		Quantity: qty,
		Amount:   amount,
		Currency: expense.Currency(m.form.GetString("currency")),
	})

	if m.form.GetBool("more") {
		m.resetItemBindings()
		m.form = m.buildItemForm()

		return m, m.form.Init()
	}

	m.state = submitStateSubmitting

	return m, m.submitCmd()
}

func (m *SubmitModel) resetItemBindings() {
	m.itemName = ""
	m.itemQty = "1"
	m.itemAmount = ""
	m.itemCurrency = string(expense.CurrencyUZS)
	m.addAnother = false
}

type expenseCreatedMsg struct {
	req expense.Request
	err error
}

func (m SubmitModel) submitCmd() tea.Cmd {
	params := gateway.CreateExpenseParams{
		Purpose:   strings.TrimSpace(m.purpose),
		ProjectID: m.projectID,
		Items:     m.items,
	}

	if date, err := ParseDate(strings.TrimSpace(m.dateStr)); err == nil {
		params.Date = date
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		req, err := m.gw.CreateExpense(ctx, params)

		return expenseCreatedMsg{req: req, err: err}
	}
}

func (m SubmitModel) View() string {
	switch m.state {
	case submitStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Submitting request...", m.spinner.View()),
		)

	case submitStateDone:
		total := FormatMoney(m.created.TotalAmount, m.created.Currency)

		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
			"Request %s submitted.\n%d item(s), total %s.\n\nPress Enter to return.",
			m.created.Code, len(m.created.Items), total,
		))
	}

	var b strings.Builder

	if len(m.items) > 0 {
		b.WriteString(sectionStyle.Render("Items so far") + "\n")

		for i, item := range m.items {
			b.WriteString(fmt.Sprintf("%2d. %s x%d %s\n",
				i+1, item.Name, item.Quantity, FormatMoney(item.Subtotal(), item.Currency)))
		}

		b.WriteString("\n")
	}

	b.WriteString(m.form.View())

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}
