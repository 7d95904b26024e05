package authz

import "context"

// PermissionStore is the capability a user store must carry to back the
// evaluator: persistence for per-user permission overrides. NewEvaluator
// asserts the configured identity.UserStore implements it.
type PermissionStore interface {
	// GetPermissionGrants returns every stored override for the user, both
	// grants and prohibitions.
	GetPermissionGrants(ctx context.Context, tenantID, userID int64) ([]GrantInfo, error)

	// AddPermissionGrant stores one override. Storing an override that
	// already exists with the same polarity is a no-op.
	AddPermissionGrant(ctx context.Context, tenantID, userID int64, name string, isGranted bool) error

	// RemovePermissionGrant deletes the override for name with the given
	// polarity. Zero matches is a no-op.
	RemovePermissionGrant(ctx context.Context, tenantID, userID int64, name string, isGranted bool) error

	// RemoveAllPermissionGrants deletes every override for the user,
	// reverting them to role-derived evaluation.
	RemoveAllPermissionGrants(ctx context.Context, tenantID, userID int64) error
}

// RolePermissionReader answers whether a role carries a permission grant.
type RolePermissionReader interface {
	IsRoleGranted(ctx context.Context, tenantID, roleID int64, permissionName string) (bool, error)
}
