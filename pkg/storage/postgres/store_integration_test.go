//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/orgunits"
)

func TestStoreRoundTripIntegration(t *testing.T) {
	store, cleanup := SetupPostgresStore(t)
	defer cleanup()

	ctx := context.Background()
	const tenant int64 = 1

	user := &identity.User{TenantID: tenant, UserName: "alice", Email: "alice@example.com", IsActive: true}
	require.NoError(t, store.CreateUser(ctx, user))

	role := &identity.Role{TenantID: tenant, Name: "editor"}
	require.NoError(t, store.CreateRole(ctx, role))
	require.NoError(t, store.AddUserToRole(ctx, tenant, user.ID, role.ID))
	require.NoError(t, store.SetRoleGranted(ctx, tenant, role.ID, "documents.edit", true))

	names, err := store.GetUserRoleNames(ctx, tenant, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, names)

	granted, err := store.IsRoleGranted(ctx, tenant, role.ID, "documents.edit")
	require.NoError(t, err)
	assert.True(t, granted)

	require.NoError(t, store.AddPermissionGrant(ctx, tenant, user.ID, "documents.delete", false))
	grants, err := store.GetPermissionGrants(ctx, tenant, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.False(t, grants[0].IsGranted)

	root := &orgunits.OrganizationUnit{TenantID: tenant, Code: orgunits.CreateCode(1)}
	require.NoError(t, store.CreateUnit(ctx, root))
	child := &orgunits.OrganizationUnit{
		TenantID: tenant,
		ParentID: &root.ID,
		Code:     orgunits.AppendCode(root.Code, orgunits.CreateCode(1)),
	}
	require.NoError(t, store.CreateUnit(ctx, child))
	require.NoError(t, store.AddMember(ctx, tenant, user.ID, child.ID))

	subtree, err := store.FindUnitsByCodePrefix(ctx, tenant, root.Code)
	require.NoError(t, err)
	assert.Len(t, subtree, 2)

	require.NoError(t, store.SetFeatureValue(ctx, tenant, "reporting", "true"))
	value, err := store.GetFeatureValue(ctx, tenant, "reporting")
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}
