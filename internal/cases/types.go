// Package cases holds the missing-person case domain: the case record, its
// status state machine, the access-scoped store that enforces the visibility
// rule, and the dashboard statistics derived from a visible case set.
package cases

import "time"

// Status is the lifecycle state of a case.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
	StatusNotFound Status = "not_found"
	StatusClosed   Status = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusResolved, StatusNotFound, StatusClosed:
		return true
	}
	return false
}

// Principal is the authenticated actor performing an operation.
type Principal struct {
	ID       string
	Username string
}

// Case is one missing-person case record.
type Case struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"user_id"`
	FullName          string     `json:"full_name"`
	Age               *int       `json:"age,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	Description       string     `json:"description,omitempty"`
	PhotoURL          string     `json:"photo_url,omitempty"`
	DateRegistered    time.Time  `json:"date_registered"`
	LastSeenLocation  string     `json:"last_seen_location,omitempty"`
	LastSeenDate      *time.Time `json:"last_seen_date,omitempty"`
	ContactInfo       string     `json:"contact_info,omitempty"`
	AdditionalDetails string     `json:"additional_details,omitempty"`
	BranchDepartment  string     `json:"branch_department,omitempty"`
	Status            Status     `json:"status"`
	IsPublic          bool       `json:"is_public"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// VisibleTo reports whether the record may be seen by the given principal:
// the owner always sees it, everyone else only when it is public.
func (c *Case) VisibleTo(p Principal) bool {
	return c.OwnerID == p.ID || c.IsPublic
}

// Draft is the caller-supplied portion of a new case. Everything the server
// assigns (id, owner, status, timestamps) is absent here.
type Draft struct {
	FullName          string     `json:"full_name"`
	Age               *int       `json:"age,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	Description       string     `json:"description,omitempty"`
	PhotoURL          string     `json:"photo_url,omitempty"`
	DateRegistered    *time.Time `json:"date_registered,omitempty"`
	LastSeenLocation  string     `json:"last_seen_location,omitempty"`
	LastSeenDate      *time.Time `json:"last_seen_date,omitempty"`
	ContactInfo       string     `json:"contact_info,omitempty"`
	AdditionalDetails string     `json:"additional_details,omitempty"`
	BranchDepartment  string     `json:"branch_department,omitempty"`
	IsPublic          bool       `json:"is_public"`
}
