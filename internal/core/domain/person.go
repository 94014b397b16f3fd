package domain

import "time"

// AdminRoleID is the distinguished role granting visibility and edit rights
// over every person record, plus department/role assignment.
const AdminRoleID = 1

// AllFilter is the sentinel filter value meaning "no restriction".
const AllFilter = 0

// Person is the core directory record.
//
// ID 0 marks a new, unsaved person. Password is write-only: it is sent on
// create/update when set and never round-tripped by the backend on reads.
type Person struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"` // ISO date "YYYY-MM-DD", empty when unknown
	Email        string `json:"email"`
	DepartmentID int    `json:"department"`
	RoleID       int    `json:"role"`
	Password     string `json:"password,omitempty"`
	Locale       string `json:"locale,omitempty"`
	Biography    string `json:"biography,omitempty"`
}

// IsNew reports whether the record has never been persisted.
func (p Person) IsNew() bool {
	return p.ID == 0
}

// IsAdmin reports whether the person holds the administrative role.
func (p Person) IsAdmin() bool {
	return p.RoleID == AdminRoleID
}

// Role is a directory role with a display label.
type Role struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Department is an organizational unit with a display label.
type Department struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Session is a bearer session issued by the backend. Exactly one session may
// be current at a time; its token is persisted outside process memory.
type Session struct {
	Token     string    `json:"token"`
	PersonID  int       `json:"personId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResult is the payload of a successful login exchange.
type LoginResult struct {
	Session Session `json:"session"`
	User    Person  `json:"user"`
}
