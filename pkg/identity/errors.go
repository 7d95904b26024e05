package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrRoleNotFound is returned when a referenced role does not exist.
	ErrRoleNotFound = errors.New("identity: role not found")

	// ErrStaticRoleUnassign is returned when a static role is removed from a
	// user through synchronization.
	ErrStaticRoleUnassign = errors.New("identity: static role cannot be unassigned")

	// ErrProtectedUserRename is returned when a rename targets a protected
	// account.
	ErrProtectedUserRename = errors.New("identity: protected user cannot be renamed")
)

// DuplicateError reports a username or email collision with a different user.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("identity: %s %q is already taken", e.Field, e.Value)
}

// IsDuplicate reports whether err is a DuplicateError.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationFailedError aggregates the output of every registered validator.
// Validation never fails fast; callers get all rejections at once.
type ValidationFailedError struct {
	Errors []*ValidationError
}

func (e *ValidationFailedError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("identity: validation failed: %s", e.Errors[0])
	}
	return fmt.Sprintf("identity: validation failed with %d errors", len(e.Errors))
}

// IsValidationFailed reports whether err is a ValidationFailedError.
func IsValidationFailed(err error) bool {
	var v *ValidationFailedError
	return errors.As(err, &v)
}
