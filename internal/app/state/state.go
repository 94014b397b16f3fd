// Package state holds the single source of truth for the client: auth
// status, loaded collections, selection, filters and field errors. All
// changes go through Reduce, a pure transition function over a fixed action
// vocabulary.
package state

import (
	"sync"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// State is the full application state. The coarse phases are Initializing
// (Authenticating set), LoggedOut (no CurrentUser, not authenticating) and
// LoggedIn (CurrentUser set).
type State struct {
	CurrentUser    *domain.Person
	Authenticating bool
	TokenRejected  bool

	People      []domain.Person
	Roles       []domain.Role
	Departments []domain.Department

	SelectedPerson   *domain.Person
	SearchTerm       string
	RoleFilter       int
	DepartmentFilter int
	FilteredPeople   []domain.Person

	FieldErrors domain.FieldErrors
}

// Initial is the entry state: authenticating, nobody logged in, all filters
// at their sentinel.
func Initial() State {
	return State{
		Authenticating:   true,
		RoleFilter:       domain.AllFilter,
		DepartmentFilter: domain.AllFilter,
		FieldErrors:      domain.FieldErrors{},
	}
}

// Action is a named state transition. The vocabulary is closed: Reduce
// treats anything else as a no-op.
type Action interface {
	action()
}

// Login sets the current user. It does not clear Authenticating or load
// data; the authentication flow orchestrates those separately.
type Login struct{ User domain.Person }

// Logout resets the entire state to its initial shape. Clearing the stored
// token is the flow's job, keeping the reducer effect-free.
type Logout struct{}

type SetPeople struct{ People []domain.Person }
type SetRoles struct{ Roles []domain.Role }
type SetDepartments struct{ Departments []domain.Department }

// SetSelectedPerson replaces the selection; nil clears it after a save,
// cancel or delete.
type SetSelectedPerson struct{ Person *domain.Person }

type SetSearchTerm struct{ Term string }
type SetRoleFilter struct{ RoleID int }
type SetDepartmentFilter struct{ DepartmentID int }

// SetFilteredPeople replaces the derived view, produced by the projector.
type SetFilteredPeople struct{ People []domain.Person }

// SetFieldErrors replaces the field-error map surfacing local or backend
// rejection reasons next to the corresponding fields.
type SetFieldErrors struct{ Errors domain.FieldErrors }

type SetAuthenticating struct{ Authenticating bool }

// SetTokenRejected flags an explicit credential failure. Clearing it must
// not clear the stored token; only Logout does that.
type SetTokenRejected struct{ Rejected bool }

func (Login) action()               {}
func (Logout) action()              {}
func (SetPeople) action()           {}
func (SetRoles) action()            {}
func (SetDepartments) action()      {}
func (SetSelectedPerson) action()   {}
func (SetSearchTerm) action()       {}
func (SetRoleFilter) action()       {}
func (SetDepartmentFilter) action() {}
func (SetFilteredPeople) action()   {}
func (SetFieldErrors) action()      {}
func (SetAuthenticating) action()   {}
func (SetTokenRejected) action()    {}

// Reduce applies a to s and returns the next state. It is pure and total:
// unrecognized actions return the input unchanged, and every case mutates
// only the fields it names.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case Login:
		user := act.User
		s.CurrentUser = &user
	case Logout:
		s = Initial()
		s.Authenticating = false
	case SetPeople:
		s.People = act.People
	case SetRoles:
		s.Roles = act.Roles
	case SetDepartments:
		s.Departments = act.Departments
	case SetSelectedPerson:
		s.SelectedPerson = act.Person
	case SetSearchTerm:
		s.SearchTerm = act.Term
	case SetRoleFilter:
		s.RoleFilter = act.RoleID
	case SetDepartmentFilter:
		s.DepartmentFilter = act.DepartmentID
	case SetFilteredPeople:
		s.FilteredPeople = act.People
	case SetFieldErrors:
		s.FieldErrors = act.Errors
	case SetAuthenticating:
		s.Authenticating = act.Authenticating
	case SetTokenRejected:
		s.TokenRejected = act.Rejected
	}
	return s
}

// Store wraps the current state with dispatch. Flows hold a Store; the view
// layer reads snapshots from it.
type Store struct {
	mu      sync.RWMutex
	current State
}

func NewStore() *Store {
	return &Store{current: Initial()}
}

// Dispatch runs the reducer and returns the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = Reduce(st.current, a)
	return st.current
}

// State returns a snapshot of the current state.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}
