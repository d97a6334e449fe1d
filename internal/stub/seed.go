package stub

import (
	"time"

	"github.com/google/uuid"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/project"
	"github.com/safina-app/safina/internal/team"
)

// Seed fills the stub with a small demo dataset so the dashboard has
// something to show on first run.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	p := project.Project{
		ID:        uuid.NewString(),
		Name:      "Harbor Renovation",
		Code:      "HRB",
		CreatedAt: now.AddDate(0, -2, 0),
	}

	m := team.Member{
		ID:         uuid.NewString(),
		LastName:   "Karimova",
		FirstName:  "Dilnoza",
		Position:   "Site Manager",
		ProjectIDs: []string{p.ID},
		Login:      "dkarimova",
		Status:     team.StatusActive,
		CreatedAt:  now.AddDate(0, -2, 0),
	}

	p.Members = []project.MemberSummary{{
		ID:        m.ID,
		LastName:  m.LastName,
		FirstName: m.FirstName,
		Position:  m.Position,
	}}

	s.projects[p.ID] = p
	s.members[m.ID] = m

	seeds := []struct {
		purpose string
		status  expense.Status
		comment string
		items   []expense.Item
		age     time.Duration
	}{
		{
			purpose: "Scaffolding rental for pier section",
			status:  expense.StatusRequest,
			items: []expense.Item{
				{Name: "Scaffolding, weekly", Quantity: 2, Amount: 1_500_000, Currency: expense.CurrencyUZS},
				{Name: "Delivery", Quantity: 1, Amount: 400_000, Currency: expense.CurrencyUZS},
			},
			age: 48 * time.Hour,
		},
		{
			purpose: "Safety equipment restock",
			status:  expense.StatusReview,
			items: []expense.Item{
				{Name: "Hard hats", Quantity: 10, Amount: 120_000, Currency: expense.CurrencyUZS},
			},
			age: 30 * time.Hour,
		},
		{
			purpose: "Surveyor day rate",
			status:  expense.StatusConfirmed,
			items: []expense.Item{
				{Name: "Survey, day", Quantity: 3, Amount: 200, Currency: expense.CurrencyUSD},
			},
			age: 20 * time.Hour,
		},
		{
			purpose: "Team lunch",
			status:  expense.StatusDeclined,
			comment: "Not reimbursable under the current policy",
			items: []expense.Item{
				{Name: "Catering", Quantity: 1, Amount: 900_000, Currency: expense.CurrencyUZS},
			},
			age: 10 * time.Hour,
		},
		{
			purpose: "Old generator maintenance",
			status:  expense.StatusArchived,
			items: []expense.Item{
				{Name: "Service visit", Quantity: 1, Amount: 650_000, Currency: expense.CurrencyUZS},
			},
			age: 600 * time.Hour,
		},
	}

	for _, seed := range seeds {
		e := expense.Request{
			ID:                uuid.NewString(),
			Code:              s.nextCode(p),
			Purpose:           seed.purpose,
			Items:             seed.items,
			Currency:          seed.items[0].Currency,
			Status:            seed.status,
			StatusComment:     seed.comment,
			ProjectID:         p.ID,
			ProjectName:       p.Name,
			ProjectCode:       p.Code,
			CreatedBy:         m.FullName(),
			CreatedByID:       m.ID,
			CreatedByPosition: m.Position,
			Date:              now.Add(-seed.age),
			CreatedAt:         now.Add(-seed.age),
		}
		e.TotalAmount = e.ItemsTotal()

		s.expenses[e.ID] = e
		s.order = append(s.order, e.ID)
	}
}
