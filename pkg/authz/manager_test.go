package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/cache"
	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/tenancy"
)

// captureAudit records audit events in memory.
type captureAudit struct {
	events []*audit.Event
}

func (c *captureAudit) Log(_ context.Context, event *audit.Event) error {
	c.events = append(c.events, event)
	return nil
}

func (c *captureAudit) Close() error { return nil }

func (c *captureAudit) ofType(t audit.EventType) []*audit.Event {
	var matched []*audit.Event
	for _, e := range c.events {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

func newTestManager(t *testing.T, store *fakeStore) (*Manager, *Evaluator, *captureAudit) {
	t.Helper()
	ev := newTestEvaluator(t, store, nil)
	sink := &captureAudit{}
	mgr, err := NewManager(ManagerConfig{Evaluator: ev, Audit: sink})
	require.NoError(t, err)
	return mgr, ev, sink
}

func TestGrantWritesOverrideOnlyWhenNeeded(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, sink := newTestManager(t, store)

	// The editor role already grants documents.edit; no record is written.
	require.NoError(t, mgr.Grant(ctx, tc, 1, "documents.edit"))
	assert.Equal(t, 0, store.overrideCount(testTenant, 1))

	// reports.export is not effective (feature-gated, no checker), so the
	// grant is materialized as an override record.
	require.NoError(t, mgr.Grant(ctx, tc, 1, "reports.export"))
	assert.Equal(t, 1, store.overrideCount(testTenant, 1))

	granted, err := ev.GetCacheItem(ctx, tc, 1)
	require.NoError(t, err)
	assert.True(t, granted.IsGranted("reports.export"))

	assert.Len(t, sink.ofType(audit.EventPermissionGranted), 2)
}

func TestProhibitBeatsRoleGrant(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, sink := newTestManager(t, store)

	granted, err := ev.IsGranted(ctx, tc, 1, "documents.edit")
	require.NoError(t, err)
	require.True(t, granted, "role grants documents.edit")

	require.NoError(t, mgr.Prohibit(ctx, tc, 1, "documents.edit"))

	granted, err = ev.IsGranted(ctx, tc, 1, "documents.edit")
	require.NoError(t, err)
	assert.False(t, granted, "prohibition visible immediately after the call")
	assert.Equal(t, 1, store.overrideCount(testTenant, 1))
	assert.Len(t, sink.ofType(audit.EventPermissionProhibited), 1)
}

func TestGrantRemovesProhibition(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, _ := newTestManager(t, store)

	require.NoError(t, mgr.Prohibit(ctx, tc, 1, "documents.edit"))
	require.NoError(t, mgr.Grant(ctx, tc, 1, "documents.edit"))

	granted, err := ev.IsGranted(ctx, tc, 1, "documents.edit")
	require.NoError(t, err)
	assert.True(t, granted)

	// The role grant suffices once the prohibition is gone; no grant record
	// should remain.
	assert.Equal(t, 0, store.overrideCount(testTenant, 1))
}

func TestProhibitIsNoOpWhenAlreadyDenied(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	store.addUser(testTenant, &identity.User{ID: 1, UserName: "alice"})
	mgr, _, _ := newTestManager(t, store)

	// No role grants documents.edit, so the user is already denied.
	require.NoError(t, mgr.Prohibit(ctx, tc, 1, "documents.edit"))
	assert.Equal(t, 0, store.overrideCount(testTenant, 1))
}

func TestResetAllPermissions(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, sink := newTestManager(t, store)

	require.NoError(t, mgr.Prohibit(ctx, tc, 1, "documents.edit"))
	require.NoError(t, mgr.Grant(ctx, tc, 1, "documents.view"))

	require.NoError(t, mgr.ResetAllPermissions(ctx, tc, 1))
	assert.Equal(t, 0, store.overrideCount(testTenant, 1))

	// Back to role-derived evaluation.
	granted, err := ev.IsGranted(ctx, tc, 1, "documents.edit")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Len(t, sink.ofType(audit.EventPermissionsReset), 1)
}

func TestProhibitAllPermissions(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, sink := newTestManager(t, store)

	require.NoError(t, mgr.ProhibitAllPermissions(ctx, tc, 1))

	for _, perm := range []string{"documents.view", "documents.edit", "reports.export"} {
		granted, err := ev.IsGranted(ctx, tc, 1, perm)
		require.NoError(t, err)
		assert.False(t, granted, perm)
	}
	assert.Len(t, sink.ofType(audit.EventPermissionsSet), 1)
}

func TestSetGrantedPermissions(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, _ := newTestManager(t, store)

	// Currently granted through the role: documents.view, documents.edit.
	// Target: keep documents.view only.
	require.NoError(t, mgr.SetGrantedPermissions(ctx, tc, 1, []string{"documents.view"}))

	granted, err := ev.IsGranted(ctx, tc, 1, "documents.view")
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = ev.IsGranted(ctx, tc, 1, "documents.edit")
	require.NoError(t, err)
	assert.False(t, granted, "removed permission is prohibited")
}

func TestSetGrantedPermissionsUnknownName(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, _, _ := newTestManager(t, store)

	err := mgr.SetGrantedPermissions(ctx, tc, 1, []string{"documents.view", "no.such"})
	assert.ErrorIs(t, err, ErrPermissionNotFound)
	assert.Equal(t, 0, store.overrideCount(testTenant, 1), "no partial change")
}

func TestSetGrantedPermissionsNilIsEmpty(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)
	mgr, ev, _ := newTestManager(t, store)

	require.NoError(t, mgr.SetGrantedPermissions(ctx, tc, 1, nil))

	granted, err := ev.GetGrantedPermissions(ctx, tc, 1)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

// failingInvalidateCache fails every Invalidate call.
type failingInvalidateCache struct {
	cache.Cache[*CacheItem]
	err error
}

func (f *failingInvalidateCache) Invalidate(context.Context, string) error {
	return f.err
}

func TestMutationFailsWhenInvalidationFails(t *testing.T) {
	ctx := context.Background()
	tc := tenancy.ForTenant(testTenant)
	store := newFakeStore()
	seedUser(store)

	boom := errors.New("cache backend down")
	ev, err := NewEvaluator(EvaluatorConfig{
		Catalog:    testCatalog(t),
		Users:      store,
		Roles:      store,
		RoleGrants: store,
		Cache: &failingInvalidateCache{
			Cache: cache.NewMemory[*CacheItem](128, time.Minute),
			err:   boom,
		},
	})
	require.NoError(t, err)
	mgr, err := NewManager(ManagerConfig{Evaluator: ev})
	require.NoError(t, err)

	assert.ErrorIs(t, mgr.Grant(ctx, tc, 1, "documents.edit"), boom)
	assert.ErrorIs(t, mgr.ResetAllPermissions(ctx, tc, 1), boom)
}
