package identity

import "context"

// UserStore is the persistence contract for users and their role
// memberships. Lookups for a missing user fail with ErrUserNotFound.
type UserStore interface {
	// FindUserByID loads a user by id within a tenant.
	FindUserByID(ctx context.Context, tenantID, userID int64) (*User, error)

	// FindUserByName loads a user by username within a tenant.
	FindUserByName(ctx context.Context, tenantID int64, userName string) (*User, error)

	// FindUserByEmail loads a user by email within a tenant.
	FindUserByEmail(ctx context.Context, tenantID int64, email string) (*User, error)

	// GetUserRoleNames returns the names of every role the user holds.
	GetUserRoleNames(ctx context.Context, tenantID, userID int64) ([]string, error)

	// AddUserToRole assigns a role to a user. Assigning an already-held role
	// is a no-op.
	AddUserToRole(ctx context.Context, tenantID, userID, roleID int64) error

	// RemoveUserFromRole unassigns a role. Removing a static role fails with
	// ErrStaticRoleUnassign; removing a role the user does not hold is a
	// no-op.
	RemoveUserFromRole(ctx context.Context, tenantID, userID, roleID int64) error
}

// RoleStore is the persistence contract for roles. Lookups for a missing
// role fail with ErrRoleNotFound.
type RoleStore interface {
	// FindRoleByID loads a role by id within a tenant.
	FindRoleByID(ctx context.Context, tenantID, roleID int64) (*Role, error)

	// FindRoleByName loads a role by name within a tenant.
	FindRoleByName(ctx context.Context, tenantID int64, name string) (*Role, error)
}
