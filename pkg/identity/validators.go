package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator inspects a user and returns zero or more field rejections. A
// validator never returns an error for degraded infrastructure; it only
// judges the user value itself.
type Validator interface {
	Validate(user *User) []*ValidationError
}

var (
	userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._@-]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// UserNameValidator checks username length and character set.
type UserNameValidator struct {
	MinLength int
	MaxLength int
}

// NewUserNameValidator returns a validator with the stock length bounds.
func NewUserNameValidator() *UserNameValidator {
	return &UserNameValidator{MinLength: 3, MaxLength: 64}
}

func (v *UserNameValidator) Validate(user *User) []*ValidationError {
	var errs []*ValidationError

	name := strings.TrimSpace(user.UserName)
	if name == "" {
		return append(errs, &ValidationError{Field: "user_name", Message: "username is required"})
	}
	if len(name) < v.MinLength {
		errs = append(errs, &ValidationError{
			Field:   "user_name",
			Message: fmt.Sprintf("username must be at least %d characters", v.MinLength),
		})
	}
	if len(name) > v.MaxLength {
		errs = append(errs, &ValidationError{
			Field:   "user_name",
			Message: fmt.Sprintf("username must be at most %d characters", v.MaxLength),
		})
	}
	if !userNamePattern.MatchString(name) {
		errs = append(errs, &ValidationError{
			Field:   "user_name",
			Message: "username may only contain letters, digits, '.', '_', '@' and '-'",
		})
	}

	return errs
}

// EmailValidator checks that the email address is well-formed.
type EmailValidator struct{}

func (v *EmailValidator) Validate(user *User) []*ValidationError {
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return []*ValidationError{{Field: "email", Message: "email is required"}}
	}
	if !emailPattern.MatchString(email) {
		return []*ValidationError{{Field: "email", Message: fmt.Sprintf("%q is not a valid email address", email)}}
	}
	return nil
}
