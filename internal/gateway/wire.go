package gateway

import (
	"time"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/project"
	"github.com/safina-app/safina/internal/team"
)

// Wire DTOs. The backend speaks snake_case JSON with ISO-8601
// timestamps; these types are the single definition of that shape,
// shared by the client and the development stub.

type ItemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ExpenseDTO struct {
	ID                string    `json:"id"`
	RequestID         string    `json:"request_id"`
	Purpose           string    `json:"purpose"`
	Items             []ItemDTO `json:"items"`
	TotalAmount       float64   `json:"total_amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	StatusComment     string    `json:"status_comment,omitempty"`
	InternalComment   string    `json:"internal_comment,omitempty"`
	ProjectID         string    `json:"project_id"`
	ProjectName       string    `json:"project_name"`
	ProjectCode       string    `json:"project_code"`
	CreatedBy         string    `json:"created_by"`
	CreatedByID       string    `json:"created_by_id"`
	CreatedByPosition string    `json:"created_by_position,omitempty"`
	Date              time.Time `json:"date"`
	CreatedAt         time.Time `json:"created_at"`
}

type MemberSummaryDTO struct {
	ID        string `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Position  string `json:"position,omitempty"`
}

type ProjectDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	CreatedAt time.Time          `json:"created_at"`
	Members   []MemberSummaryDTO `json:"members"`
}

type TeamMemberDTO struct {
	ID             string    `json:"id"`
	LastName       string    `json:"last_name"`
	FirstName      string    `json:"first_name"`
	Position       string    `json:"position,omitempty"`
	ProjectIDs     []string  `json:"project_ids"`
	Login          string    `json:"login"`
	Status         string    `json:"status"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type StatusUpdateDTO struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type InternalCommentDTO struct {
	InternalComment string `json:"internal_comment"`
}

type CreateExpenseDTO struct {
	Purpose   string     `json:"purpose"`
	ProjectID string     `json:"project_id"`
	Items     []ItemDTO  `json:"items"`
	Date      *time.Time `json:"date,omitempty"`
}

type CreateProjectDTO struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type CreateTeamMemberDTO struct {
	LastName   string   `json:"last_name"`
	FirstName  string   `json:"first_name"`
	Position   string   `json:"position,omitempty"`
	ProjectIDs []string `json:"project_ids"`
	Login      string   `json:"login"`
	Password   string   `json:"password"`
}

func (d ExpenseDTO) ToDomain() expense.Request {
	items := make([]expense.Item, len(d.Items))
	for i, it := range d.Items {
		items[i] = expense.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			Amount:   it.Amount,
			Currency: expense.Currency(it.Currency),
		}
	}

	return expense.Request{
		ID:                d.ID,
		Code:              d.RequestID,
		Purpose:           d.Purpose,
		Items:             items,
		TotalAmount:       d.TotalAmount,
		Currency:          expense.Currency(d.Currency),
		Status:            expense.Status(d.Status),
		StatusComment:     d.StatusComment,
		InternalComment:   d.InternalComment,
		ProjectID:         d.ProjectID,
		ProjectName:       d.ProjectName,
		ProjectCode:       d.ProjectCode,
		CreatedBy:         d.CreatedBy,
		CreatedByID:       d.CreatedByID,
		CreatedByPosition: d.CreatedByPosition,
		Date:              d.Date,
		CreatedAt:         d.CreatedAt,
	}
}

func ExpenseToDTO(r expense.Request) ExpenseDTO {
	return ExpenseDTO{
		ID:                r.ID,
		RequestID:         r.Code,
		Purpose:           r.Purpose,
		Items:             ItemsToDTO(r.Items),
		TotalAmount:       r.TotalAmount,
		Currency:          string(r.Currency),
		Status:            string(r.Status),
		StatusComment:     r.StatusComment,
		InternalComment:   r.InternalComment,
		ProjectID:         r.ProjectID,
		ProjectName:       r.ProjectName,
		ProjectCode:       r.ProjectCode,
		CreatedBy:         r.CreatedBy,
		CreatedByID:       r.CreatedByID,
		CreatedByPosition: r.CreatedByPosition,
		Date:              r.Date,
		CreatedAt:         r.CreatedAt,
	}
}

func ItemsToDTO(items []expense.Item) []ItemDTO {
	out := make([]ItemDTO, len(items))
	for i, it := range items {
		out[i] = ItemDTO{
			Name:     it.Name,
			Quantity: it.Quantity,
			Amount:   it.Amount,
			Currency: string(it.Currency),
		}
	}

	return out
}

func (d ProjectDTO) ToDomain() project.Project {
	members := make([]project.MemberSummary, len(d.Members))
	for i, m := range d.Members {
		members[i] = project.MemberSummary{
			ID:        m.ID,
			LastName:  m.LastName,
			FirstName: m.FirstName,
			Position:  m.Position,
		}
	}

	return project.Project{
		ID:        d.ID,
		Name:      d.Name,
		Code:      d.Code,
		CreatedAt: d.CreatedAt,
		Members:   members,
	}
}

func ProjectToDTO(p project.Project) ProjectDTO {
	members := make([]MemberSummaryDTO, len(p.Members))
	for i, m := range p.Members {
		members[i] = MemberSummaryDTO{
			ID:        m.ID,
			LastName:  m.LastName,
			FirstName: m.FirstName,
			Position:  m.Position,
		}
	}

	return ProjectDTO{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		CreatedAt: p.CreatedAt,
		Members:   members,
	}
}

func (d TeamMemberDTO) ToDomain() team.Member {
	return team.Member{
		ID:             d.ID,
		LastName:       d.LastName,
		FirstName:      d.FirstName,
		Position:       d.Position,
		ProjectIDs:     d.ProjectIDs,
		Login:          d.Login,
		Status:         team.MemberStatus(d.Status),
		TelegramChatID: d.TelegramChatID,
		CreatedAt:      d.CreatedAt,
	}
}

func TeamMemberToDTO(m team.Member) TeamMemberDTO {
	return TeamMemberDTO{
		ID:             m.ID,
		LastName:       m.LastName,
		FirstName:      m.FirstName,
		Position:       m.Position,
		ProjectIDs:     m.ProjectIDs,
		Login:          m.Login,
		Status:         string(m.Status),
		TelegramChatID: m.TelegramChatID,
		CreatedAt:      m.CreatedAt,
	}
}
