package storage

import (
	"context"

	"github.com/platinummonkey/gatehouse/pkg/authz"
	"github.com/platinummonkey/gatehouse/pkg/features"
	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/orgunits"
)

// Store is the full persistence surface of the authorization subsystem: one
// backend serving users, roles, permission overrides, organization units and
// tenant feature values. Both the in-memory store and the PostgreSQL store
// implement it.
type Store interface {
	identity.UserStore
	identity.RoleStore
	authz.PermissionStore
	authz.RolePermissionReader
	orgunits.Store
	features.ValueStore
	Writer
}

// Writer holds the provisioning operations: creating the records the
// read-side contracts only look up.
type Writer interface {
	// CreateUser inserts a user and assigns its id. Username and email
	// collisions within the tenant fail with an identity.DuplicateError.
	CreateUser(ctx context.Context, user *identity.User) error

	// CreateRole inserts a role and assigns its id. A name collision within
	// the tenant fails with an identity.DuplicateError.
	CreateRole(ctx context.Context, role *identity.Role) error

	// SetRoleGranted sets whether the role carries a grant for the named
	// permission.
	SetRoleGranted(ctx context.Context, tenantID, roleID int64, permissionName string, granted bool) error

	// CreateUnit inserts an organization unit and assigns its id. A code
	// collision within the tenant fails with an identity.DuplicateError.
	CreateUnit(ctx context.Context, unit *orgunits.OrganizationUnit) error

	// SetFeatureValue stores a tenant's feature value, replacing any
	// existing one.
	SetFeatureValue(ctx context.Context, tenantID int64, name, value string) error
}
