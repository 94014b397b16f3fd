package ports

import (
	"context"

	"github.com/wI2L/jsondiff"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// DirectoryClient is the remote staff-directory API surface. Every operation
// except Login requires a stored bearer token and fails fast with
// domain.ErrMissingToken before any network call when none is available.
type DirectoryClient interface {
	// Login exchanges credentials and/or a previously stored token for a
	// session. A 204 response maps to (nil, nil): a legitimate "no session"
	// outcome, not an error.
	Login(ctx context.Context, email, password, token string) (*domain.LoginResult, error)

	ListPeople(ctx context.Context) ([]domain.Person, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	GetPerson(ctx context.Context, id int) (*domain.Person, error)

	CreatePerson(ctx context.Context, p domain.Person) error
	UpdatePerson(ctx context.Context, id int, patch jsondiff.Patch) error
	DeletePerson(ctx context.Context, id int) error
}
