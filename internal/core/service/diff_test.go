package service

import (
	"testing"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

func basePerson() domain.Person {
	return domain.Person{
		ID:           3,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DateOfBirth:  "1815-12-10",
		Email:        "ada@example.com",
		DepartmentID: 1,
		RoleID:       2,
		Locale:       "en-GB",
	}
}

func TestDiffPerson_NoChangesYieldsEmptyPatch(t *testing.T) {
	p := basePerson()
	patch, err := DiffPerson(p, p)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(patch) != 0 {
		t.Fatalf("expected empty patch, got %v", patch)
	}
}

func TestDiffPerson_SingleFieldYieldsSingleReplace(t *testing.T) {
	original := basePerson()
	edited := original
	edited.FirstName = "Adeline"

	patch, err := DiffPerson(original, edited)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(patch) != 1 {
		t.Fatalf("expected one operation, got %v", patch)
	}
	op := patch[0]
	if op.Type != "replace" || op.Path != "/firstName" {
		t.Fatalf("expected replace on /firstName, got %+v", op)
	}
	if op.Value != "Adeline" {
		t.Fatalf("unexpected value: %v", op.Value)
	}
}

func TestDiffPerson_UntouchedPasswordNeverAppears(t *testing.T) {
	original := basePerson()
	edited := original
	edited.Biography = "Wrote the first program."

	patch, err := DiffPerson(original, edited)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	for _, op := range patch {
		if op.Path == "/password" {
			t.Fatalf("password must not leak into the patch: %+v", patch)
		}
	}
}

func TestDiffPerson_TouchedPasswordIsAdded(t *testing.T) {
	original := basePerson()
	edited := original
	edited.Password = "S3cret!pass"

	patch, err := DiffPerson(original, edited)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(patch) != 1 || patch[0].Path != "/password" {
		t.Fatalf("expected a single /password operation, got %+v", patch)
	}
}
