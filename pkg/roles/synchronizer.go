package roles

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/authz"
	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/observability"
)

// CacheInvalidator evicts permission snapshots by key. Any
// cache.Cache[*authz.CacheItem] satisfies it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// SynchronizerConfig wires a Synchronizer.
type SynchronizerConfig struct {
	// Users loads and mutates user role memberships. Required.
	Users identity.UserStore

	// Roles resolves role names. Required.
	Roles identity.RoleStore

	// Cache is the permission snapshot cache to invalidate after changes.
	// Required.
	Cache CacheInvalidator

	// Audit receives role change events. Optional.
	Audit audit.Logger

	// Metrics records sync counters. Optional.
	Metrics *observability.Metrics

	// Log may be nil.
	Log *logrus.Logger
}

// Synchronizer reconciles a user's role memberships against a target set,
// typically driven by an external identity provider.
type Synchronizer struct {
	users   identity.UserStore
	roles   identity.RoleStore
	cache   CacheInvalidator
	audit   audit.Logger
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewSynchronizer creates a role synchronizer.
func NewSynchronizer(cfg SynchronizerConfig) (*Synchronizer, error) {
	if cfg.Users == nil {
		return nil, fmt.Errorf("roles: user store is required")
	}
	if cfg.Roles == nil {
		return nil, fmt.Errorf("roles: role store is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("roles: cache invalidator is required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}
	return &Synchronizer{
		users:   cfg.Users,
		roles:   cfg.Roles,
		cache:   cfg.Cache,
		audit:   audit.OrNop(cfg.Audit),
		metrics: cfg.Metrics,
		log:     log,
	}, nil
}

// SetRoles makes targetRoleNames the user's role set: roles outside the
// target are removed first, then missing ones added. The reconciliation is
// best-effort sequential: the first store failure (for example a static
// role refusing unassignment) returns immediately and already-applied
// changes stand. Unknown role names fail with identity.ErrRoleNotFound.
//
// Whenever at least one change was applied, the user's permission snapshot
// is invalidated before SetRoles returns, on the error path too.
func (s *Synchronizer) SetRoles(ctx context.Context, tenantID, userID int64, targetRoleNames []string) (err error) {
	current, err := s.users.GetUserRoleNames(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to load roles of user %d: %w", userID, err)
	}

	target := make(map[string]struct{}, len(targetRoleNames))
	for _, name := range targetRoleNames {
		target[name] = struct{}{}
	}
	currentSet := make(map[string]struct{}, len(current))
	for _, name := range current {
		currentSet[name] = struct{}{}
	}

	changed := false
	defer func() {
		if !changed {
			return
		}
		if invErr := s.cache.Invalidate(ctx, authz.CacheKey(userID, tenantID)); invErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to invalidate permission cache for user %d: %w", userID, invErr)
			} else {
				s.log.WithError(invErr).WithFields(logrus.Fields{
					"user_id":   userID,
					"tenant_id": tenantID,
				}).Error("Failed to invalidate permission cache after role sync failure")
			}
		}
	}()

	for _, name := range current {
		if _, keep := target[name]; keep {
			continue
		}
		role, err := s.roles.FindRoleByName(ctx, tenantID, name)
		if err != nil {
			return fmt.Errorf("failed to resolve role %q: %w", name, err)
		}
		if err := s.users.RemoveUserFromRole(ctx, tenantID, userID, role.ID); err != nil {
			return fmt.Errorf("failed to remove role %q from user %d: %w", name, userID, err)
		}
		changed = true
		if s.metrics != nil {
			s.metrics.RecordRoleSyncChange("remove")
		}
		s.logAudit(ctx, audit.New(audit.EventRoleUnassigned, tenantID, userID).WithRole(name))
	}

	for _, name := range targetRoleNames {
		if _, has := currentSet[name]; has {
			continue
		}
		role, err := s.roles.FindRoleByName(ctx, tenantID, name)
		if err != nil {
			return fmt.Errorf("failed to resolve role %q: %w", name, err)
		}
		if err := s.users.AddUserToRole(ctx, tenantID, userID, role.ID); err != nil {
			return fmt.Errorf("failed to add role %q to user %d: %w", name, userID, err)
		}
		changed = true
		if s.metrics != nil {
			s.metrics.RecordRoleSyncChange("add")
		}
		s.logAudit(ctx, audit.New(audit.EventRoleAssigned, tenantID, userID).WithRole(name))
	}

	return nil
}

func (s *Synchronizer) logAudit(ctx context.Context, event *audit.Event) {
	if err := s.audit.Log(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event_type": event.Type,
			"user_id":    event.UserID,
			"tenant_id":  event.TenantID,
		}).Warn("Failed to record audit event")
	}
}
