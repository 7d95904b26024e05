package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Manager bundles the identity guards that account-management operations run
// before touching the store: duplicate detection, protected-account rename
// checks and aggregated validation.
type Manager struct {
	users      UserStore
	validators []Validator
	log        *logrus.Logger
}

// NewManager creates a manager. When no validators are passed, the built-in
// username and email validators are registered. log may be nil.
func NewManager(users UserStore, log *logrus.Logger, validators ...Validator) *Manager {
	if log == nil {
		log = logrus.New()
	}
	if len(validators) == 0 {
		validators = []Validator{NewUserNameValidator(), &EmailValidator{}}
	}
	return &Manager{
		users:      users,
		validators: validators,
		log:        log,
	}
}

// ValidateUser runs every registered validator and aggregates the rejections
// into a single ValidationFailedError. All validators run; validation never
// stops at the first rejection.
func (m *Manager) ValidateUser(user *User) error {
	var all []*ValidationError
	for _, v := range m.validators {
		all = append(all, v.Validate(user)...)
	}
	if len(all) > 0 {
		m.log.WithFields(logrus.Fields{
			"user_name": user.UserName,
			"errors":    len(all),
		}).Debug("user validation failed")
		return &ValidationFailedError{Errors: all}
	}
	return nil
}

// CheckDuplicateUserNameOrEmail fails with a DuplicateError when the
// username or email already belongs to a different user in the tenant.
// userID identifies the user being created or updated; pass 0 for a new
// user.
func (m *Manager) CheckDuplicateUserNameOrEmail(ctx context.Context, tenantID, userID int64, userName, email string) error {
	existing, err := m.users.FindUserByName(ctx, tenantID, userName)
	switch {
	case err == nil:
		if existing.ID != userID {
			return &DuplicateError{Field: "user_name", Value: userName}
		}
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to check username uniqueness: %w", err)
	}

	existing, err = m.users.FindUserByEmail(ctx, tenantID, email)
	switch {
	case err == nil:
		if existing.ID != userID {
			return &DuplicateError{Field: "email", Value: email}
		}
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	return nil
}

// EnsureRenameAllowed rejects renames of protected accounts. Changing other
// attributes of a protected account stays allowed.
func (m *Manager) EnsureRenameAllowed(user *User, newUserName string) error {
	if user.IsProtected && user.UserName != newUserName {
		return fmt.Errorf("cannot rename %q: %w", user.UserName, ErrProtectedUserRename)
	}
	return nil
}
