package service

import "github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"

// Field-level edit permission is orthogonal to validation: validation says
// whether a value is acceptable, these rules say whether the actor may touch
// the field at all.

// CanEditPerson reports whether actor may edit target: admins edit everyone,
// everyone edits their own record.
func CanEditPerson(actor, target domain.Person) bool {
	return actor.IsAdmin() || actor.ID == target.ID
}

// CanEditField reports whether actor may edit the named field on target.
// Role and department assignment stay admin-only even on the actor's own
// record.
func CanEditField(actor, target domain.Person, field string) bool {
	if !CanEditPerson(actor, target) {
		return false
	}
	switch field {
	case FieldRole:
		return ShowRoleSelector(actor, target)
	case FieldDepartment:
		return ShowDepartmentSelector(actor)
	default:
		return true
	}
}

// ShowDepartmentSelector: department assignment is rendered for admins only.
func ShowDepartmentSelector(actor domain.Person) bool {
	return actor.IsAdmin()
}

// ShowRoleSelector: role assignment is rendered for admins only, and hidden
// when an admin edits their own record so they cannot demote or escalate
// themselves.
func ShowRoleSelector(actor, target domain.Person) bool {
	return actor.IsAdmin() && actor.ID != target.ID
}

// CanDelete reports whether actor may delete target: admins only, and never
// their own record.
func CanDelete(actor, target domain.Person) bool {
	return actor.IsAdmin() && actor.ID != target.ID
}
