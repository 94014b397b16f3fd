package state

import (
	"reflect"
	"testing"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// unknownAction is outside the recognized vocabulary.
type unknownAction struct{}

func (unknownAction) action() {}

func populated() State {
	admin := domain.Person{ID: 1, FirstName: "Ada", RoleID: domain.AdminRoleID}
	return State{
		CurrentUser:    &admin,
		Authenticating: false,
		TokenRejected:  true,
		People: []domain.Person{
			{ID: 1, FirstName: "Ada", Email: "ada@example.com", RoleID: 1, DepartmentID: 1},
			{ID: 2, FirstName: "Ben", Email: "ben@example.com", RoleID: 2, DepartmentID: 2},
		},
		Roles:            []domain.Role{{ID: 1, Label: "Administrator"}},
		Departments:      []domain.Department{{ID: 1, Label: "Engineering"}},
		SelectedPerson:   &domain.Person{ID: 2},
		SearchTerm:       "ben",
		RoleFilter:       2,
		DepartmentFilter: 2,
		FilteredPeople:   []domain.Person{{ID: 2}},
		FieldErrors:      domain.FieldErrors{"email": {"email is required"}},
	}
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	before := populated()
	after := Reduce(before, unknownAction{})
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("unknown action changed state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestReduce_LogoutResetsEverything(t *testing.T) {
	after := Reduce(populated(), Logout{})

	want := Initial()
	want.Authenticating = false
	if !reflect.DeepEqual(after, want) {
		t.Fatalf("logout did not reset state: %+v", after)
	}
	if after.CurrentUser != nil || after.SelectedPerson != nil {
		t.Fatalf("logout left references behind")
	}
}

func TestReduce_FilterSettersDoNotInterfere(t *testing.T) {
	base := populated()

	after := Reduce(base, SetSearchTerm{Term: "ada"})
	if after.SearchTerm != "ada" {
		t.Fatalf("search term not applied: %q", after.SearchTerm)
	}
	restored := after
	restored.SearchTerm = base.SearchTerm
	if !reflect.DeepEqual(restored, base) {
		t.Fatalf("SetSearchTerm mutated unrelated fields")
	}

	after = Reduce(base, SetRoleFilter{RoleID: 7})
	if after.RoleFilter != 7 {
		t.Fatalf("role filter not applied: %d", after.RoleFilter)
	}
	restored = after
	restored.RoleFilter = base.RoleFilter
	if !reflect.DeepEqual(restored, base) {
		t.Fatalf("SetRoleFilter mutated unrelated fields")
	}

	after = Reduce(base, SetDepartmentFilter{DepartmentID: 9})
	if after.DepartmentFilter != 9 {
		t.Fatalf("department filter not applied: %d", after.DepartmentFilter)
	}
	restored = after
	restored.DepartmentFilter = base.DepartmentFilter
	if !reflect.DeepEqual(restored, base) {
		t.Fatalf("SetDepartmentFilter mutated unrelated fields")
	}
}

func TestReduce_LoginSetsOnlyCurrentUser(t *testing.T) {
	base := populated()
	user := domain.Person{ID: 5, FirstName: "Eve"}

	after := Reduce(base, Login{User: user})
	if after.CurrentUser == nil || after.CurrentUser.ID != 5 {
		t.Fatalf("login did not set current user: %+v", after.CurrentUser)
	}
	if after.Authenticating != base.Authenticating {
		t.Fatalf("login must not clear authenticating")
	}
	if len(after.People) != len(base.People) {
		t.Fatalf("login must not touch collections")
	}
}

func TestReduce_SetTokenRejectedFalseKeepsState(t *testing.T) {
	base := populated()
	after := Reduce(base, SetTokenRejected{Rejected: false})
	if after.TokenRejected {
		t.Fatalf("flag not cleared")
	}
	restored := after
	restored.TokenRejected = base.TokenRejected
	if !reflect.DeepEqual(restored, base) {
		t.Fatalf("SetTokenRejected mutated unrelated fields")
	}
}

func TestStore_DispatchAccumulates(t *testing.T) {
	st := NewStore()
	st.Dispatch(SetSearchTerm{Term: "x"})
	st.Dispatch(SetRoleFilter{RoleID: 3})

	s := st.State()
	if s.SearchTerm != "x" || s.RoleFilter != 3 {
		t.Fatalf("dispatches not accumulated: %+v", s)
	}
}
