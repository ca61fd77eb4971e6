package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound marks the expected "no profile yet for this
	// user" case. Callers branch on it; it is never surfaced as a
	// backend failure.
	ErrProfileNotFound = errors.New("startup profile not found")

	// ErrNoSession marks a call made without an authenticated user.
	// Operations treat it as "nothing to do yet".
	ErrNoSession = errors.New("no authenticated session")
)

// ErrMissingField reports a form-validation failure for a single field.
type ErrMissingField string

func (e ErrMissingField) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", string(e))
}
