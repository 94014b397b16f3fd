// Package flow orchestrates the client engine: login protocol, collection
// loading, filter changes and person mutations. Flows own every side effect
// (token persistence, network, cache invalidation) so the reducer stays
// pure.
package flow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Jacqui87/person-management-extension-sub000/internal/app/state"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/ports"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/service"
	"github.com/Jacqui87/person-management-extension-sub000/internal/metrics"
)

type Flow struct {
	store     *state.Store
	client    ports.DirectoryClient
	cache     ports.EntityCache
	sessions  ports.SessionStore
	validator *service.Validator
	log       zerolog.Logger
}

// New wires the flow with its collaborators. All dependencies are explicit;
// nothing is ambient.
func New(store *state.Store, client ports.DirectoryClient, cache ports.EntityCache, sessions ports.SessionStore, log zerolog.Logger) *Flow {
	return &Flow{
		store:     store,
		client:    client,
		cache:     cache,
		sessions:  sessions,
		validator: service.NewValidator(),
		log:       log,
	}
}

// Store exposes the state store for the view layer.
func (f *Flow) Store() *state.Store {
	return f.store
}

// Bootstrap runs the silent login once at startup: if a token is stored,
// attempt a token-only login. A stale token at this stage leaves the user
// logged out without marking the token rejected; only an explicit
// credential login does that.
func (f *Flow) Bootstrap(ctx context.Context) error {
	f.store.Dispatch(state.SetAuthenticating{Authenticating: true})
	// Authenticating must clear on every exit path.
	defer f.store.Dispatch(state.SetAuthenticating{Authenticating: false})

	token, err := f.sessions.Get()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	result, err := f.client.Login(ctx, "", "", token)
	if err != nil || result == nil {
		if err != nil {
			f.log.Warn().Err(err).Msg("silent login failed")
		}
		metrics.LoginAttemptsTotal.WithLabelValues("silent_none").Inc()
		return nil
	}

	metrics.LoginAttemptsTotal.WithLabelValues("silent_ok").Inc()
	return f.finishLogin(ctx, result)
}

// Login runs the two-attempt reconciliation protocol for explicit
// credentials: first with the stored token, then, if that yields no
// session, once more with the token cleared. Only a double failure marks
// the token rejected.
func (f *Flow) Login(ctx context.Context, email, password string) error {
	f.store.Dispatch(state.SetAuthenticating{Authenticating: true})
	defer f.store.Dispatch(state.SetAuthenticating{Authenticating: false})

	token, err := f.sessions.Get()
	if err != nil {
		return err
	}

	result, err := f.client.Login(ctx, email, password, token)
	if err != nil {
		f.log.Warn().Err(err).Msg("login attempt failed")
	}
	if result != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("credential_ok").Inc()
		return f.finishLogin(ctx, result)
	}

	// The stored token was stale or invalid: discard it and retry exactly
	// once on credentials alone.
	if err := f.sessions.Clear(); err != nil {
		return err
	}

	result, err = f.client.Login(ctx, email, password, "")
	if err != nil {
		f.log.Warn().Err(err).Msg("login retry failed")
	}
	if result != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("retry_ok").Inc()
		return f.finishLogin(ctx, result)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
	f.store.Dispatch(state.SetTokenRejected{Rejected: true})
	return nil
}

// Logout clears the stored token and resets the state to its initial shape.
func (f *Flow) Logout() error {
	if err := f.sessions.Clear(); err != nil {
		return err
	}
	f.store.Dispatch(state.Logout{})
	return nil
}

// finishLogin is the shared success path: persist the fresh token, set the
// user, load all three collections bypassing the cache, and project.
func (f *Flow) finishLogin(ctx context.Context, result *domain.LoginResult) error {
	f.store.Dispatch(state.SetTokenRejected{Rejected: false})

	if err := f.sessions.Set(result.Session.Token); err != nil {
		return err
	}
	f.store.Dispatch(state.Login{User: result.User})
	f.log.Info().Int("person_id", result.User.ID).Msg("logged in")

	return f.Refresh(ctx)
}

// Refresh force-loads people, roles and departments and re-derives the
// filtered view.
func (f *Flow) Refresh(ctx context.Context) error {
	people, err := f.cache.People(ctx, true)
	if err != nil {
		return err
	}
	roles, err := f.cache.Roles(ctx, true)
	if err != nil {
		return err
	}
	departments, err := f.cache.Departments(ctx, true)
	if err != nil {
		return err
	}

	f.store.Dispatch(state.SetPeople{People: people})
	f.store.Dispatch(state.SetRoles{Roles: roles})
	f.store.Dispatch(state.SetDepartments{Departments: departments})
	f.reproject()
	return nil
}

// Search updates the search term and re-derives the view. Filter criteria
// are independent: changing one never resets another.
func (f *Flow) Search(term string) {
	f.store.Dispatch(state.SetSearchTerm{Term: term})
	f.reproject()
}

func (f *Flow) FilterByRole(roleID int) {
	f.store.Dispatch(state.SetRoleFilter{RoleID: roleID})
	f.reproject()
}

func (f *Flow) FilterByDepartment(departmentID int) {
	f.store.Dispatch(state.SetDepartmentFilter{DepartmentID: departmentID})
	f.reproject()
}

// Select marks a person for editing; nil clears the selection.
func (f *Flow) Select(p *domain.Person) {
	f.store.Dispatch(state.SetSelectedPerson{Person: p})
}

// VisiblePeople applies the own-record restriction on top of the projected
// view. The restriction is presentational: it is never written back into
// FilteredPeople.
func (f *Flow) VisiblePeople() []domain.Person {
	s := f.store.State()
	if s.CurrentUser == nil {
		return nil
	}
	return service.RestrictToOwn(s.FilteredPeople, *s.CurrentUser)
}

// ClearFieldError drops the errors recorded against field, used as the user
// re-edits a field that carried a backend rejection.
func (f *Flow) ClearFieldError(field string) {
	s := f.store.State()
	f.store.Dispatch(state.SetFieldErrors{Errors: s.FieldErrors.ClearField(field)})
}

func (f *Flow) reproject() {
	s := f.store.State()
	filtered := service.Project(s.People, s.SearchTerm, s.RoleFilter, s.DepartmentFilter)
	f.store.Dispatch(state.SetFilteredPeople{People: filtered})
}
