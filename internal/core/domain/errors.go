package domain

import (
	"errors"
	"fmt"
)

var ErrMissingToken = errors.New("no session token available")
var ErrPersonNotFound = errors.New("person not found")
var ErrForbidden = errors.New("access forbidden")
var ErrSelfDelete = errors.New("cannot delete own record")

// HTTPError is any non-2xx backend response, carrying the status code and
// the raw body text as the message.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// ServerRejection is a transport-level success whose body encodes field-level
// validation errors from the backend. The fields map merges into the
// application's field-error state.
type ServerRejection struct {
	Fields FieldErrors
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("backend rejected %d field(s)", len(e.Fields))
}

// FieldErrors maps a field name to the messages raised against it.
type FieldErrors map[string][]string

// Merge folds other into f, appending messages per field.
func (f FieldErrors) Merge(other FieldErrors) FieldErrors {
	if f == nil {
		f = FieldErrors{}
	}
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
	return f
}

// ClearField returns a copy of f without the given field. Used as the user
// re-edits a field that previously carried a server rejection.
func (f FieldErrors) ClearField(field string) FieldErrors {
	if len(f) == 0 {
		return FieldErrors{}
	}
	out := make(FieldErrors, len(f))
	for k, v := range f {
		if k != field {
			out[k] = v
		}
	}
	return out
}
