package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/authz"
	"github.com/platinummonkey/gatehouse/pkg/features"
	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/orgunits"
	"github.com/platinummonkey/gatehouse/pkg/specification"
)

type tenantKey struct {
	tenantID int64
	id       int64
}

type pairKey struct {
	tenantID int64
	left     int64
	right    int64
}

type nameKey struct {
	tenantID int64
	id       int64
	name     string
}

// Memory is an in-process Store. It backs tests and single-node embeddings
// that do not want a database. Safe for concurrent use.
type Memory struct {
	mu sync.Mutex

	nextID int64

	users map[tenantKey]*identity.User
	roles map[tenantKey]*identity.Role
	units map[tenantKey]*orgunits.OrganizationUnit

	userRoles   map[pairKey]struct{} // (tenant, user, role)
	memberships map[pairKey]struct{} // (tenant, user, unit)

	userGrants map[nameKey]bool // (tenant, user, permission) -> polarity
	roleGrants map[nameKey]bool // (tenant, role, permission) -> granted

	featureValues map[int64]map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[tenantKey]*identity.User),
		roles:         make(map[tenantKey]*identity.Role),
		units:         make(map[tenantKey]*orgunits.OrganizationUnit),
		userRoles:     make(map[pairKey]struct{}),
		memberships:   make(map[pairKey]struct{}),
		userGrants:    make(map[nameKey]bool),
		roleGrants:    make(map[nameKey]bool),
		featureValues: make(map[int64]map[string]string),
	}
}

func (m *Memory) allocID() int64 {
	m.nextID++
	return m.nextID
}

// --- identity.UserStore ---

func (m *Memory) FindUserByID(_ context.Context, tenantID, userID int64) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[tenantKey{tenantID, userID}]
	if !ok {
		return nil, fmt.Errorf("user %d in tenant %d: %w", userID, tenantID, identity.ErrUserNotFound)
	}
	copied := *user
	return &copied, nil
}

func (m *Memory) FindUserByName(_ context.Context, tenantID int64, userName string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, user := range m.users {
		if key.tenantID == tenantID && strings.EqualFold(user.UserName, userName) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q in tenant %d: %w", userName, tenantID, identity.ErrUserNotFound)
}

func (m *Memory) FindUserByEmail(_ context.Context, tenantID int64, email string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, user := range m.users {
		if key.tenantID == tenantID && strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q in tenant %d: %w", email, tenantID, identity.ErrUserNotFound)
}

func (m *Memory) GetUserRoleNames(_ context.Context, tenantID, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for key := range m.userRoles {
		if key.tenantID == tenantID && key.left == userID {
			if role, ok := m.roles[tenantKey{tenantID, key.right}]; ok {
				names = append(names, role.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) AddUserToRole(_ context.Context, tenantID, userID, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[tenantKey{tenantID, roleID}]; !ok {
		return fmt.Errorf("role %d in tenant %d: %w", roleID, tenantID, identity.ErrRoleNotFound)
	}
	m.userRoles[pairKey{tenantID, userID, roleID}] = struct{}{}
	return nil
}

func (m *Memory) RemoveUserFromRole(_ context.Context, tenantID, userID, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[tenantKey{tenantID, roleID}]
	if !ok {
		return fmt.Errorf("role %d in tenant %d: %w", roleID, tenantID, identity.ErrRoleNotFound)
	}
	if role.IsStatic {
		return fmt.Errorf("role %q: %w", role.Name, identity.ErrStaticRoleUnassign)
	}
	delete(m.userRoles, pairKey{tenantID, userID, roleID})
	return nil
}

// --- identity.RoleStore ---

func (m *Memory) FindRoleByID(_ context.Context, tenantID, roleID int64) (*identity.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[tenantKey{tenantID, roleID}]
	if !ok {
		return nil, fmt.Errorf("role %d in tenant %d: %w", roleID, tenantID, identity.ErrRoleNotFound)
	}
	copied := *role
	return &copied, nil
}

func (m *Memory) FindRoleByName(_ context.Context, tenantID int64, name string) (*identity.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, role := range m.roles {
		if key.tenantID == tenantID && role.Name == name {
			copied := *role
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("role %q in tenant %d: %w", name, tenantID, identity.ErrRoleNotFound)
}

// --- authz.PermissionStore ---

func (m *Memory) GetPermissionGrants(_ context.Context, tenantID, userID int64) ([]authz.GrantInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var grants []authz.GrantInfo
	for key, isGranted := range m.userGrants {
		if key.tenantID == tenantID && key.id == userID {
			grants = append(grants, authz.GrantInfo{Name: key.name, IsGranted: isGranted})
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].Name < grants[j].Name })
	return grants, nil
}

func (m *Memory) AddPermissionGrant(_ context.Context, tenantID, userID int64, name string, isGranted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userGrants[nameKey{tenantID, userID, name}] = isGranted
	return nil
}

func (m *Memory) RemovePermissionGrant(_ context.Context, tenantID, userID int64, name string, isGranted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := nameKey{tenantID, userID, name}
	if polarity, ok := m.userGrants[key]; ok && polarity == isGranted {
		delete(m.userGrants, key)
	}
	return nil
}

func (m *Memory) RemoveAllPermissionGrants(_ context.Context, tenantID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.userGrants {
		if key.tenantID == tenantID && key.id == userID {
			delete(m.userGrants, key)
		}
	}
	return nil
}

// --- authz.RolePermissionReader ---

func (m *Memory) IsRoleGranted(_ context.Context, tenantID, roleID int64, permissionName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleGrants[nameKey{tenantID, roleID, permissionName}], nil
}

// --- orgunits.Store ---

func (m *Memory) FindUnitByID(_ context.Context, tenantID, unitID int64) (*orgunits.OrganizationUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	unit, ok := m.units[tenantKey{tenantID, unitID}]
	if !ok {
		return nil, fmt.Errorf("unit %d in tenant %d: %w", unitID, tenantID, orgunits.ErrUnitNotFound)
	}
	copied := *unit
	return &copied, nil
}

func (m *Memory) FindUnitsByCodePrefix(_ context.Context, tenantID int64, prefix string) ([]*orgunits.OrganizationUnit, error) {
	m.mu.Lock()
	all := make([]*orgunits.OrganizationUnit, 0, len(m.units))
	for key, unit := range m.units {
		if key.tenantID == tenantID {
			copied := *unit
			all = append(all, &copied)
		}
	}
	m.mu.Unlock()

	spec, err := specification.FromPredicate(func(u *orgunits.OrganizationUnit) bool {
		return strings.HasPrefix(u.Code, prefix)
	})
	if err != nil {
		return nil, err
	}
	matched := specification.Filter(all, spec)
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })
	return matched, nil
}

func (m *Memory) GetUserUnitIDs(_ context.Context, tenantID, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for key := range m.memberships {
		if key.tenantID == tenantID && key.left == userID {
			ids = append(ids, key.right)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) CountUserMemberships(ctx context.Context, tenantID, userID int64) (int, error) {
	ids, err := m.GetUserUnitIDs(ctx, tenantID, userID)
	return len(ids), err
}

func (m *Memory) GetMemberIDs(_ context.Context, tenantID, unitID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for key := range m.memberships {
		if key.tenantID == tenantID && key.right == unitID {
			ids = append(ids, key.left)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) AddMember(_ context.Context, tenantID, userID, unitID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[pairKey{tenantID, userID, unitID}] = struct{}{}
	return nil
}

func (m *Memory) RemoveMember(_ context.Context, tenantID, userID, unitID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.memberships, pairKey{tenantID, userID, unitID})
	return nil
}

// --- features.ValueStore ---

func (m *Memory) GetFeatureValue(_ context.Context, tenantID int64, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.featureValues[tenantID][name]; ok {
		return value, nil
	}
	return "", fmt.Errorf("feature %q for tenant %d: %w", name, tenantID, features.ErrFeatureValueNotSet)
}

// --- Writer ---

func (m *Memory) CreateUser(_ context.Context, user *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, existing := range m.users {
		if key.tenantID != user.TenantID {
			continue
		}
		if strings.EqualFold(existing.UserName, user.UserName) {
			return &identity.DuplicateError{Field: "user_name", Value: user.UserName}
		}
		if user.Email != "" && strings.EqualFold(existing.Email, user.Email) {
			return &identity.DuplicateError{Field: "email", Value: user.Email}
		}
	}

	now := time.Now().UTC()
	user.ID = m.allocID()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	m.users[tenantKey{user.TenantID, user.ID}] = &copied
	return nil
}

func (m *Memory) CreateRole(_ context.Context, role *identity.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, existing := range m.roles {
		if key.tenantID == role.TenantID && existing.Name == role.Name {
			return &identity.DuplicateError{Field: "name", Value: role.Name}
		}
	}

	now := time.Now().UTC()
	role.ID = m.allocID()
	role.CreatedAt = now
	role.UpdatedAt = now
	copied := *role
	m.roles[tenantKey{role.TenantID, role.ID}] = &copied
	return nil
}

func (m *Memory) SetRoleGranted(_ context.Context, tenantID, roleID int64, permissionName string, granted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := nameKey{tenantID, roleID, permissionName}
	if granted {
		m.roleGrants[key] = true
	} else {
		delete(m.roleGrants, key)
	}
	return nil
}

func (m *Memory) CreateUnit(_ context.Context, unit *orgunits.OrganizationUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, existing := range m.units {
		if key.tenantID == unit.TenantID && existing.Code == unit.Code {
			return &identity.DuplicateError{Field: "code", Value: unit.Code}
		}
	}

	now := time.Now().UTC()
	unit.ID = m.allocID()
	unit.CreatedAt = now
	unit.UpdatedAt = now
	copied := *unit
	m.units[tenantKey{unit.TenantID, unit.ID}] = &copied
	return nil
}

func (m *Memory) SetFeatureValue(_ context.Context, tenantID int64, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.featureValues[tenantID] == nil {
		m.featureValues[tenantID] = make(map[string]string)
	}
	m.featureValues[tenantID][name] = value
	return nil
}
