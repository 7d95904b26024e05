package identity

import "time"

// UserIdentity exposes the identity keys of a user without binding callers
// to a concrete user type.
type UserIdentity interface {
	GetUserID() int64
	GetUserName() string
}

// RoleIdentity exposes the identity keys of a role.
type RoleIdentity interface {
	GetRoleID() int64
	GetRoleName() string
}

// User represents a user account within a tenant. TenantID 0 means the user
// lives on the host side.
type User struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`

	// IsProtected marks built-in accounts (e.g. the tenant admin) that must
	// not be renamed or deleted.
	IsProtected bool `json:"is_protected"`
	IsActive    bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) GetUserID() int64    { return u.ID }
func (u *User) GetUserName() string { return u.UserName }

// Role represents a named bundle of permission grants within a tenant.
type Role struct {
	ID          int64  `json:"id"`
	TenantID    int64  `json:"tenant_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`

	// IsStatic marks roles created by the system; a static role cannot be
	// unassigned from a user through role synchronization.
	IsStatic  bool `json:"is_static"`
	IsDefault bool `json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Role) GetRoleID() int64    { return r.ID }
func (r *Role) GetRoleName() string { return r.Name }
