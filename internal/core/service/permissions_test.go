package service

import (
	"testing"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

var (
	adminActor = domain.Person{ID: 1, RoleID: domain.AdminRoleID}
	plainActor = domain.Person{ID: 2, RoleID: 2}
	other      = domain.Person{ID: 3, RoleID: 2}
)

func TestCanEditPerson(t *testing.T) {
	if !CanEditPerson(adminActor, other) {
		t.Fatalf("admin must edit anyone")
	}
	if !CanEditPerson(plainActor, plainActor) {
		t.Fatalf("everyone edits their own record")
	}
	if CanEditPerson(plainActor, other) {
		t.Fatalf("non-admin must not edit others")
	}
}

func TestSelectors(t *testing.T) {
	if !ShowDepartmentSelector(adminActor) || ShowDepartmentSelector(plainActor) {
		t.Fatalf("department selector is admin-only")
	}
	if !ShowRoleSelector(adminActor, other) {
		t.Fatalf("admin editing another record sees the role selector")
	}
	if ShowRoleSelector(adminActor, adminActor) {
		t.Fatalf("admin editing own record must not see the role selector")
	}
	if ShowRoleSelector(plainActor, other) {
		t.Fatalf("role selector is admin-only")
	}
}

func TestCanEditField(t *testing.T) {
	if !CanEditField(plainActor, plainActor, FieldFirstName) {
		t.Fatalf("own plain fields are editable")
	}
	if CanEditField(plainActor, plainActor, FieldRole) {
		t.Fatalf("non-admin must not edit role, even their own")
	}
	if CanEditField(plainActor, other, FieldFirstName) {
		t.Fatalf("non-admin must not edit others at all")
	}
	if CanEditField(adminActor, adminActor, FieldRole) {
		t.Fatalf("admin must not edit their own role")
	}
	if !CanEditField(adminActor, other, FieldRole) {
		t.Fatalf("admin edits role on other records")
	}
}

func TestCanDelete(t *testing.T) {
	if !CanDelete(adminActor, other) {
		t.Fatalf("admin deletes other records")
	}
	if CanDelete(adminActor, adminActor) {
		t.Fatalf("self-deletion must be refused")
	}
	if CanDelete(plainActor, other) {
		t.Fatalf("deletion is admin-only")
	}
}
