package service

import (
	"strings"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// Project derives the visible subset of people from the raw collection and
// the current filter criteria. All three predicates are conjunctive; the
// domain.AllFilter sentinel (0) disables a role/department predicate and an
// empty search term matches everyone.
func Project(people []domain.Person, searchTerm string, roleFilter, departmentFilter int) []domain.Person {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]domain.Person, 0, len(people))
	for _, p := range people {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if roleFilter != domain.AllFilter && p.RoleID != roleFilter {
			continue
		}
		if departmentFilter != domain.AllFilter && p.DepartmentID != departmentFilter {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p domain.Person, term string) bool {
	return strings.Contains(strings.ToLower(p.FirstName), term) ||
		strings.Contains(strings.ToLower(p.LastName), term) ||
		strings.Contains(strings.ToLower(p.Email), term)
}

// RestrictToOwn applies the own-record restriction: a non-admin actor sees
// only their own record. Applied after projection, at presentation time —
// the restricted list is never written back into the application state.
func RestrictToOwn(people []domain.Person, actor domain.Person) []domain.Person {
	if actor.IsAdmin() {
		return people
	}
	for _, p := range people {
		if p.ID == actor.ID {
			return []domain.Person{p}
		}
	}
	return []domain.Person{}
}
