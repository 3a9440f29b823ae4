package content

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound indicates the requested record does not exist in the cache or the remote store.
	ErrNotFound = eris.New("content not found")
	// ErrRemoteUnavailable indicates an operation needs the remote document store but none is wired.
	ErrRemoteUnavailable = eris.New("remote document store unavailable")
)

// ValidationError describes content rejected before it reaches any store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
