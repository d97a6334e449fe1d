package expense

import (
	"fmt"
	"math"
	"time"
)

// Currency is the ISO code shared by every item of a request.
type Currency string

const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
)

// Status represents the lifecycle state of an expense request.
type Status string

const (
	StatusRequest   Status = "request"
	StatusReview    Status = "review"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusRevision  Status = "revision"
	StatusArchived  Status = "archived"
)

// KanbanStatuses is the fixed left-to-right column order of the live board.
// Archived requests are shown in a separate view, never on the board.
var KanbanStatuses = []Status{
	StatusRequest,
	StatusReview,
	StatusConfirmed,
	StatusDeclined,
	StatusRevision,
}

// Statuses lists every status in canonical order.
var Statuses = []Status{
	StatusRequest,
	StatusReview,
	StatusConfirmed,
	StatusDeclined,
	StatusRevision,
	StatusArchived,
}

func (s Status) Valid() bool {
	switch s {
	case StatusRequest, StatusReview, StatusConfirmed, StatusDeclined, StatusRevision, StatusArchived:
		return true
	}

	return false
}

// Label returns the human-readable name shown on column headers,
// badges and exported reports.
func (s Status) Label() string {
	switch s {
	case StatusRequest:
		return "Request"
	case StatusReview:
		return "In Review"
	case StatusConfirmed:
		return "Confirmed"
	case StatusDeclined:
		return "Declined"
	case StatusRevision:
		return "Revision"
	case StatusArchived:
		return "Archived"
	}

	return string(s)
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}

	return st, nil
}

// Item is one line of an expense request. Items have no identity of
// their own and live only inside their parent request.
type Item struct {
	Name     string
	Quantity int
	Amount   float64
	Currency Currency
}

// Subtotal is quantity times unit amount.
func (i Item) Subtotal() float64 {
	return float64(i.Quantity) * i.Amount
}

// Request is an expense-reimbursement request. Project and author
// fields are denormalized so historical requests survive project or
// member deletion.
type Request struct {
	ID      string
	Code    string // human-readable, project-prefixed, e.g. "PRJ-007"
	Purpose string

	Items       []Item
	TotalAmount float64
	Currency    Currency

	Status          Status
	StatusComment   string // set only on declined/revision transitions
	InternalComment string // admin-only, never shown to the submitter

	ProjectID   string
	ProjectName string
	ProjectCode string

	CreatedBy         string
	CreatedByID       string
	CreatedByPosition string

	Date      time.Time // submission timestamp
	CreatedAt time.Time
}

// Clone returns a deep copy, so a stored snapshot cannot be mutated
// through the original's item slice.
func (r Request) Clone() Request {
	c := r
	c.Items = make([]Item, len(r.Items))
	copy(c.Items, r.Items)

	return c
}

// ItemsTotal sums quantity*amount over all items.
func (r Request) ItemsTotal() float64 {
	var total float64
	for _, it := range r.Items {
		total += it.Subtotal()
	}

	return total
}

const amountTolerance = 1e-6

// VerifyTotal checks the request invariants: the stored total equals
// the sum of item subtotals, and all items share the request currency.
func (r Request) VerifyTotal() error {
	if math.Abs(r.TotalAmount-r.ItemsTotal()) > amountTolerance {
		return fmt.Errorf("total %v does not match item sum %v", r.TotalAmount, r.ItemsTotal())
	}

	for _, it := range r.Items {
		if it.Currency != r.Currency {
			return fmt.Errorf("item %q currency %s differs from request currency %s", it.Name, it.Currency, r.Currency)
		}
	}

	return nil
}
