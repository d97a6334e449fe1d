package project

import "time"

// MemberSummary is the denormalized member reference embedded in a
// project listing.
type MemberSummary struct {
	ID        string
	LastName  string
	FirstName string
	Position  string
}

// Project groups expense requests and supplies the prefix of their
// human-readable codes. Deleting a project is a hard operation;
// historical requests keep the denormalized name and code.
type Project struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	Members   []MemberSummary
}
