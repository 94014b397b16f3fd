package flow

import (
	"context"
	"errors"

	"github.com/Jacqui87/person-management-extension-sub000/internal/app/state"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/service"
)

// SavePerson validates and persists an edit. An empty edited password means
// "unchanged" and skips password validation entirely. Validation failures
// never reach the network: they land in the field-error map and the save
// stops locally. Creates send the full entity; updates send a minimal patch
// against the last-known cache snapshot. On success the people cache is
// invalidated, re-fetched and the selection cleared.
func (f *Flow) SavePerson(ctx context.Context, edited domain.Person, confirmPassword string) error {
	s := f.store.State()
	if s.CurrentUser == nil {
		return domain.ErrForbidden
	}
	actor := *s.CurrentUser

	if !service.CanEditPerson(actor, edited) {
		return domain.ErrForbidden
	}
	if edited.IsNew() && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	passwordTouched := edited.Password != ""
	schema := service.BuildSchema(actor.RoleID, passwordTouched)

	people, err := f.cache.People(ctx, false)
	if err != nil {
		return err
	}

	if errs := f.validator.Validate(schema, edited, confirmPassword, people); len(errs) > 0 {
		f.store.Dispatch(state.SetFieldErrors{Errors: errs})
		return nil
	}

	if edited.IsNew() {
		err = f.client.CreatePerson(ctx, edited)
	} else {
		err = f.updatePerson(ctx, actor, edited)
	}
	if err != nil {
		var rejection *domain.ServerRejection
		if errors.As(err, &rejection) {
			s = f.store.State()
			f.store.Dispatch(state.SetFieldErrors{Errors: s.FieldErrors.Merge(rejection.Fields)})
			return nil
		}
		// The cache snapshot stays untouched on failure; the next successful
		// fetch reconciles.
		return err
	}

	return f.afterMutation(ctx)
}

// updatePerson diffs the edit against the last-known snapshot and PATCHes
// the result. An empty patch means nothing to persist.
func (f *Flow) updatePerson(ctx context.Context, actor, edited domain.Person) error {
	original, err := f.cache.Person(ctx, edited.ID)
	if err != nil {
		return err
	}

	// Fields the actor may not touch are pinned to their current values so
	// a non-admin edit can never move them, whatever the caller sent.
	if !service.ShowRoleSelector(actor, edited) {
		edited.RoleID = original.RoleID
	}
	if !service.ShowDepartmentSelector(actor) {
		edited.DepartmentID = original.DepartmentID
	}

	patch, err := service.DiffPerson(*original, edited)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		f.log.Debug().Int("person_id", edited.ID).Msg("no changes to persist")
		return nil
	}

	return f.client.UpdatePerson(ctx, edited.ID, patch)
}

// DeletePerson removes a record. Admins only, and never the actor's own
// record.
func (f *Flow) DeletePerson(ctx context.Context, id int) error {
	s := f.store.State()
	if s.CurrentUser == nil {
		return domain.ErrForbidden
	}
	actor := *s.CurrentUser

	if id == actor.ID {
		return domain.ErrSelfDelete
	}
	if !service.CanDelete(actor, domain.Person{ID: id}) {
		return domain.ErrForbidden
	}

	if err := f.client.DeletePerson(ctx, id); err != nil {
		return err
	}

	return f.afterMutation(ctx)
}

// afterMutation re-syncs after any successful create/update/delete:
// invalidate, force re-fetch, reproject, clear selection and field errors.
func (f *Flow) afterMutation(ctx context.Context) error {
	f.cache.InvalidatePeople()

	people, err := f.cache.People(ctx, true)
	if err != nil {
		return err
	}
	f.store.Dispatch(state.SetPeople{People: people})
	f.reproject()
	f.store.Dispatch(state.SetSelectedPerson{Person: nil})
	f.store.Dispatch(state.SetFieldErrors{Errors: domain.FieldErrors{}})
	return nil
}
