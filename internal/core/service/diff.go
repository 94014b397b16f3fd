package service

import (
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// DiffPerson computes the minimal ordered patch transforming original into
// edited. Unchanged fields are omitted; an identical pair yields an empty
// patch. Updates send this patch instead of the full entity; creates never
// go through here.
func DiffPerson(original, edited domain.Person) (jsondiff.Patch, error) {
	patch, err := jsondiff.Compare(original, edited)
	if err != nil {
		return nil, fmt.Errorf("diff person %d: %w", original.ID, err)
	}
	return patch, nil
}
