package team

import "time"

// MemberStatus gates whether a member may sign in.
type MemberStatus string

const (
	StatusActive  MemberStatus = "active"
	StatusBlocked MemberStatus = "blocked"
)

// Member is a person who can author expense requests. Deleting a
// member removes them from the roster but not from requests they
// authored.
type Member struct {
	ID             string
	LastName       string
	FirstName      string
	Position       string // printed on generated documents
	ProjectIDs     []string
	Login          string
	Status         MemberStatus
	TelegramChatID int64 // external notification channel, 0 when unset
	CreatedAt      time.Time
}

// FullName is the display form used on cards and documents.
func (m Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}

	return m.LastName + " " + m.FirstName
}

// CreateParams carries the admin-supplied fields for a new member.
type CreateParams struct {
	LastName   string
	FirstName  string
	Position   string
	ProjectIDs []string
	Login      string
	Password   string
}
