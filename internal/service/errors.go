// Package service implements the complaint workflow on top of the triage
// pipeline and the repositories.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation wraps invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidStatus is returned for unknown status names.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrForbiddenZone is returned when an authority acts outside its zone.
	ErrForbiddenZone = errors.New("complaint belongs to another zone")
	// ErrDuplicateUser is returned when a username or email is taken.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrInvalidCredentials is returned for failed logins.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSearchDisabled is returned when no search index is configured.
	ErrSearchDisabled = errors.New("search is disabled")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
