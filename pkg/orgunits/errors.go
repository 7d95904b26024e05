package orgunits

import (
	"errors"
	"fmt"
)

// ErrUnitNotFound is returned when a referenced organization unit does not
// exist in the tenant.
var ErrUnitNotFound = errors.New("orgunits: organization unit not found")

// MembershipLimitError reports that adding a membership would push the user
// past the tenant's configured maximum.
type MembershipLimitError struct {
	UserID  int64
	Current int
	Limit   int
}

func (e *MembershipLimitError) Error() string {
	return fmt.Sprintf("orgunits: user %d is a member of %d units, limit is %d", e.UserID, e.Current, e.Limit)
}

// IsMembershipLimit reports whether err is a MembershipLimitError.
func IsMembershipLimit(err error) bool {
	var limitErr *MembershipLimitError
	return errors.As(err, &limitErr)
}
