package ports

import (
	"context"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// EntityCache is a read-through cache over the directory collections.
// A populated, fresh entry is returned without a network call unless force
// is set; a stale or invalidated entry triggers a fetch-and-replace.
// Invalidation only clears: the next read performs the fetch.
type EntityCache interface {
	People(ctx context.Context, force bool) ([]domain.Person, error)
	Roles(ctx context.Context, force bool) ([]domain.Role, error)
	Departments(ctx context.Context, force bool) ([]domain.Department, error)
	Person(ctx context.Context, id int) (*domain.Person, error)

	// InvalidatePeople must be called after every person create/update/delete.
	InvalidatePeople()
}
