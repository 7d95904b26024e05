package orgunits

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/settings"
)

// MaxMembershipSetting is the settings key bounding how many units one user
// may join. It can be overridden per tenant.
const MaxMembershipSetting = "gatehouse.organization_units.max_membership_count"

// DefaultMaxMembershipCount applies when the setting is absent. It is high
// enough to be effectively unlimited.
const DefaultMaxMembershipCount = 1 << 30

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	// Store persists units and memberships. Required.
	Store Store

	// Settings resolves the membership limit. Optional; absent means
	// DefaultMaxMembershipCount.
	Settings settings.Provider

	// Audit receives membership events. Optional.
	Audit audit.Logger

	// Metrics records membership counters. Optional.
	Metrics *observability.Metrics

	// Log may be nil.
	Log *logrus.Logger
}

// Manager maintains user membership in organization units.
type Manager struct {
	store    Store
	settings settings.Provider
	audit    audit.Logger
	metrics  *observability.Metrics
	log      *logrus.Logger
}

// NewManager creates a membership manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("orgunits: store is required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}
	return &Manager{
		store:    cfg.Store,
		settings: cfg.Settings,
		audit:    audit.OrNop(cfg.Audit),
		metrics:  cfg.Metrics,
		log:      log,
	}, nil
}

// maxMemberships resolves the tenant's membership limit.
func (m *Manager) maxMemberships(ctx context.Context, tenantID int64) (int, error) {
	if m.settings == nil {
		return DefaultMaxMembershipCount, nil
	}
	max, err := settings.IntForTenant(ctx, m.settings, tenantID, MaxMembershipSetting)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			return DefaultMaxMembershipCount, nil
		}
		return 0, fmt.Errorf("failed to resolve membership limit: %w", err)
	}
	return max, nil
}

// AddToUnit makes the user a member of the unit. Adding an existing
// membership is a no-op. The unit must exist; exceeding the tenant's
// membership limit fails with a MembershipLimitError and writes nothing.
//
// The count check and the insert are not atomic; concurrent adds can
// momentarily overshoot the limit.
func (m *Manager) AddToUnit(ctx context.Context, tenantID, userID, unitID int64) error {
	if _, err := m.store.FindUnitByID(ctx, tenantID, unitID); err != nil {
		return err
	}

	current, err := m.store.GetUserUnitIDs(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to load memberships of user %d: %w", userID, err)
	}
	for _, id := range current {
		if id == unitID {
			return nil
		}
	}

	max, err := m.maxMemberships(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(current)+1 > max {
		if m.metrics != nil {
			m.metrics.RecordMembershipLimitHit()
		}
		return &MembershipLimitError{UserID: userID, Current: len(current), Limit: max}
	}

	if err := m.store.AddMember(ctx, tenantID, userID, unitID); err != nil {
		return fmt.Errorf("failed to add user %d to unit %d: %w", userID, unitID, err)
	}

	if m.metrics != nil {
		m.metrics.RecordMembershipChange("add")
	}
	m.logAudit(ctx, audit.New(audit.EventUnitMemberAdded, tenantID, userID).WithUnit(unitID))
	return nil
}

// RemoveFromUnit removes the user from the unit. Removing a membership that
// does not exist is a no-op.
func (m *Manager) RemoveFromUnit(ctx context.Context, tenantID, userID, unitID int64) error {
	if err := m.store.RemoveMember(ctx, tenantID, userID, unitID); err != nil {
		return fmt.Errorf("failed to remove user %d from unit %d: %w", userID, unitID, err)
	}

	if m.metrics != nil {
		m.metrics.RecordMembershipChange("remove")
	}
	m.logAudit(ctx, audit.New(audit.EventUnitMemberRemoved, tenantID, userID).WithUnit(unitID))
	return nil
}

// SetUnits makes unitIDs the exact membership set of the user. A nil slice
// means no memberships. The target count is validated against the limit up
// front; then memberships outside the target are removed and missing ones
// added.
func (m *Manager) SetUnits(ctx context.Context, tenantID, userID int64, unitIDs []int64) error {
	target := make(map[int64]struct{}, len(unitIDs))
	for _, id := range unitIDs {
		target[id] = struct{}{}
	}

	max, err := m.maxMemberships(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(target) > max {
		if m.metrics != nil {
			m.metrics.RecordMembershipLimitHit()
		}
		return &MembershipLimitError{UserID: userID, Current: len(target), Limit: max}
	}

	current, err := m.store.GetUserUnitIDs(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to load memberships of user %d: %w", userID, err)
	}
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	for _, id := range current {
		if _, keep := target[id]; !keep {
			if err := m.RemoveFromUnit(ctx, tenantID, userID, id); err != nil {
				return err
			}
		}
	}
	for _, id := range unitIDs {
		if _, has := currentSet[id]; !has {
			if err := m.AddToUnit(ctx, tenantID, userID, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetUsersInUnit returns the ids of the unit's members. With includeChildren
// the membership of every descendant unit is included; descendants are the
// units whose code has the parent's code as a raw string prefix.
func (m *Manager) GetUsersInUnit(ctx context.Context, tenantID, unitID int64, includeChildren bool) ([]int64, error) {
	unit, err := m.store.FindUnitByID(ctx, tenantID, unitID)
	if err != nil {
		return nil, err
	}

	if !includeChildren {
		return m.store.GetMemberIDs(ctx, tenantID, unitID)
	}

	units, err := m.store.FindUnitsByCodePrefix(ctx, tenantID, unit.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to load descendants of unit %d: %w", unitID, err)
	}

	seen := make(map[int64]struct{})
	var users []int64
	for _, u := range units {
		members, err := m.store.GetMemberIDs(ctx, tenantID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load members of unit %d: %w", u.ID, err)
		}
		for _, id := range members {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			users = append(users, id)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}

func (m *Manager) logAudit(ctx context.Context, event *audit.Event) {
	if err := m.audit.Log(ctx, event); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"event_type": event.Type,
			"user_id":    event.UserID,
			"tenant_id":  event.TenantID,
		}).Warn("Failed to record audit event")
	}
}
