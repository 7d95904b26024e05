package authz

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/tenancy"
)

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	// Evaluator backs re-checks and cache invalidation. Required.
	Evaluator *Evaluator

	// Audit receives mutation events. Optional.
	Audit audit.Logger

	// Metrics records mutation counters. Optional.
	Metrics *observability.Metrics

	// Log may be nil.
	Log *logrus.Logger
}

// Manager mutates per-user permission overrides. Every mutation invalidates
// the user's cached snapshot; an invalidation failure fails the mutation so
// callers never act on a stale grant.
type Manager struct {
	ev      *Evaluator
	audit   audit.Logger
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewManager creates a permission manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("authz: evaluator is required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}
	return &Manager{
		ev:      cfg.Evaluator,
		audit:   audit.OrNop(cfg.Audit),
		metrics: cfg.Metrics,
		log:     log,
	}, nil
}

// Grant gives the user an explicit grant for the named permission. If the
// user already holds the permission (directly or through a role) no override
// record is written; an existing prohibition is removed either way.
func (m *Manager) Grant(ctx context.Context, tc tenancy.TenantContext, userID int64, name string) error {
	return m.setPermission(ctx, tc, userID, name, true)
}

// Prohibit denies the user the named permission even when a role grants it.
// If the user is already effectively denied no override record is written;
// an existing grant record is removed either way.
func (m *Manager) Prohibit(ctx context.Context, tc tenancy.TenantContext, userID int64, name string) error {
	return m.setPermission(ctx, tc, userID, name, false)
}

func (m *Manager) setPermission(ctx context.Context, tc tenancy.TenantContext, userID int64, name string, grant bool) error {
	if _, err := m.ev.catalog.Get(name); err != nil {
		return err
	}

	// Drop any opposite-polarity override first so Granted and Prohibited
	// never share a name.
	if err := m.ev.perms.RemovePermissionGrant(ctx, tc.TenantID, userID, name, !grant); err != nil {
		return fmt.Errorf("failed to remove permission override %q: %w", name, err)
	}
	if err := m.ev.Invalidate(ctx, tc, userID); err != nil {
		return err
	}

	// Re-check so a permission already effective through a role does not get
	// a redundant override record.
	effective, err := m.ev.IsGranted(ctx, tc, userID, name)
	if err != nil {
		return err
	}

	if effective != grant {
		if err := m.ev.perms.AddPermissionGrant(ctx, tc.TenantID, userID, name, grant); err != nil {
			return fmt.Errorf("failed to store permission override %q: %w", name, err)
		}
		if err := m.ev.Invalidate(ctx, tc, userID); err != nil {
			return err
		}
	}

	operation := "prohibit"
	eventType := audit.EventPermissionProhibited
	if grant {
		operation = "grant"
		eventType = audit.EventPermissionGranted
	}
	if m.metrics != nil {
		m.metrics.RecordMutation(operation)
	}
	m.logAudit(ctx, audit.New(eventType, tc.TenantID, userID).WithPermission(name))

	return nil
}

// ResetAllPermissions deletes every override record for the user, reverting
// them to purely role-derived evaluation.
func (m *Manager) ResetAllPermissions(ctx context.Context, tc tenancy.TenantContext, userID int64) error {
	if err := m.ev.perms.RemoveAllPermissionGrants(ctx, tc.TenantID, userID); err != nil {
		return fmt.Errorf("failed to remove permission overrides of user %d: %w", userID, err)
	}
	if err := m.ev.Invalidate(ctx, tc, userID); err != nil {
		return err
	}

	if m.metrics != nil {
		m.metrics.RecordMutation("reset")
	}
	m.logAudit(ctx, audit.New(audit.EventPermissionsReset, tc.TenantID, userID))
	return nil
}

// ProhibitAllPermissions prohibits every catalog permission for the user,
// sequentially. The first failure aborts; already-applied prohibitions
// stand. This is not ResetAllPermissions: role grants stay defeated.
func (m *Manager) ProhibitAllPermissions(ctx context.Context, tc tenancy.TenantContext, userID int64) error {
	for _, perm := range m.ev.catalog.All() {
		if err := m.Prohibit(ctx, tc, userID, perm.Name); err != nil {
			return fmt.Errorf("failed to prohibit %q: %w", perm.Name, err)
		}
	}

	if m.metrics != nil {
		m.metrics.RecordMutation("prohibit_all")
	}
	m.logAudit(ctx, audit.New(audit.EventPermissionsSet, tc.TenantID, userID).
		WithMessage("all permissions prohibited"))
	return nil
}

// SetGrantedPermissions makes names the exact set of permissions the user
// holds: currently-granted permissions outside names are prohibited, names
// not currently granted are granted. Unknown names fail before any change.
func (m *Manager) SetGrantedPermissions(ctx context.Context, tc tenancy.TenantContext, userID int64, names []string) error {
	target := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, err := m.ev.catalog.Get(name); err != nil {
			return err
		}
		target[name] = struct{}{}
	}

	current, err := m.ev.GetGrantedPermissions(ctx, tc, userID)
	if err != nil {
		return err
	}
	currentSet := make(map[string]struct{}, len(current))
	for _, perm := range current {
		currentSet[perm.Name] = struct{}{}
	}

	for _, perm := range current {
		if _, keep := target[perm.Name]; !keep {
			if err := m.Prohibit(ctx, tc, userID, perm.Name); err != nil {
				return err
			}
		}
	}
	for _, name := range names {
		if _, has := currentSet[name]; !has {
			if err := m.Grant(ctx, tc, userID, name); err != nil {
				return err
			}
		}
	}

	if m.metrics != nil {
		m.metrics.RecordMutation("set")
	}
	m.logAudit(ctx, audit.New(audit.EventPermissionsSet, tc.TenantID, userID).
		WithMessage(fmt.Sprintf("granted set replaced with %d permissions", len(names))))
	return nil
}

// logAudit records the event; audit sink failures are logged and swallowed
// so a broken sink never blocks authorization changes.
func (m *Manager) logAudit(ctx context.Context, event *audit.Event) {
	if err := m.audit.Log(ctx, event); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"event_type": event.Type,
			"user_id":    event.UserID,
			"tenant_id":  event.TenantID,
		}).Warn("Failed to record audit event")
	}
}
