package authz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/platinummonkey/gatehouse/pkg/identity"
)

type userKey struct {
	tenantID int64
	userID   int64
}

// fakeStore implements identity.UserStore, identity.RoleStore,
// PermissionStore and RolePermissionReader in memory for evaluator and
// manager tests.
type fakeStore struct {
	mu sync.Mutex

	users      map[userKey]*identity.User
	userRoles  map[userKey][]string
	roles      map[int64]map[string]*identity.Role
	grants     map[userKey][]GrantInfo
	roleGrants map[int64]map[string]bool

	userLoads atomic.Int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[userKey]*identity.User),
		userRoles:  make(map[userKey][]string),
		roles:      make(map[int64]map[string]*identity.Role),
		grants:     make(map[userKey][]GrantInfo),
		roleGrants: make(map[int64]map[string]bool),
	}
}

func (s *fakeStore) addUser(tenantID int64, user *identity.User, roleNames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey{tenantID, user.ID}
	user.TenantID = tenantID
	s.users[key] = user
	s.userRoles[key] = roleNames
}

func (s *fakeStore) addRole(tenantID int64, role *identity.Role, grantedPermissions ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[tenantID] == nil {
		s.roles[tenantID] = make(map[string]*identity.Role)
	}
	role.TenantID = tenantID
	s.roles[tenantID][role.Name] = role
	perms := make(map[string]bool, len(grantedPermissions))
	for _, p := range grantedPermissions {
		perms[p] = true
	}
	s.roleGrants[role.ID] = perms
}

func (s *fakeStore) FindUserByID(_ context.Context, tenantID, userID int64) (*identity.User, error) {
	s.userLoads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userKey{tenantID, userID}]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, identity.ErrUserNotFound)
	}
	return user, nil
}

func (s *fakeStore) FindUserByName(_ context.Context, tenantID int64, userName string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, user := range s.users {
		if key.tenantID == tenantID && user.UserName == userName {
			return user, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (s *fakeStore) FindUserByEmail(_ context.Context, tenantID int64, email string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, user := range s.users {
		if key.tenantID == tenantID && user.Email == email {
			return user, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (s *fakeStore) GetUserRoleNames(_ context.Context, tenantID, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userRoles[userKey{tenantID, userID}]...), nil
}

func (s *fakeStore) AddUserToRole(_ context.Context, tenantID, userID, roleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := s.roleByID(tenantID, roleID)
	if role == nil {
		return identity.ErrRoleNotFound
	}
	key := userKey{tenantID, userID}
	for _, name := range s.userRoles[key] {
		if name == role.Name {
			return nil
		}
	}
	s.userRoles[key] = append(s.userRoles[key], role.Name)
	return nil
}

func (s *fakeStore) RemoveUserFromRole(_ context.Context, tenantID, userID, roleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := s.roleByID(tenantID, roleID)
	if role == nil {
		return identity.ErrRoleNotFound
	}
	if role.IsStatic {
		return fmt.Errorf("role %q: %w", role.Name, identity.ErrStaticRoleUnassign)
	}
	key := userKey{tenantID, userID}
	names := s.userRoles[key]
	for i, name := range names {
		if name == role.Name {
			s.userRoles[key] = append(names[:i:i], names[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) roleByID(tenantID, roleID int64) *identity.Role {
	for _, role := range s.roles[tenantID] {
		if role.ID == roleID {
			return role
		}
	}
	return nil
}

func (s *fakeStore) FindRoleByID(_ context.Context, tenantID, roleID int64) (*identity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := s.roleByID(tenantID, roleID)
	if role == nil {
		return nil, fmt.Errorf("role %d: %w", roleID, identity.ErrRoleNotFound)
	}
	return role, nil
}

func (s *fakeStore) FindRoleByName(_ context.Context, tenantID int64, name string) (*identity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[tenantID][name]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", name, identity.ErrRoleNotFound)
	}
	return role, nil
}

func (s *fakeStore) GetPermissionGrants(_ context.Context, tenantID, userID int64) ([]GrantInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GrantInfo(nil), s.grants[userKey{tenantID, userID}]...), nil
}

func (s *fakeStore) AddPermissionGrant(_ context.Context, tenantID, userID int64, name string, isGranted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey{tenantID, userID}
	for _, g := range s.grants[key] {
		if g.Name == name && g.IsGranted == isGranted {
			return nil
		}
	}
	s.grants[key] = append(s.grants[key], GrantInfo{Name: name, IsGranted: isGranted})
	return nil
}

func (s *fakeStore) RemovePermissionGrant(_ context.Context, tenantID, userID int64, name string, isGranted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey{tenantID, userID}
	grants := s.grants[key]
	for i, g := range grants {
		if g.Name == name && g.IsGranted == isGranted {
			s.grants[key] = append(grants[:i:i], grants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) RemoveAllPermissionGrants(_ context.Context, tenantID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, userKey{tenantID, userID})
	return nil
}

func (s *fakeStore) IsRoleGranted(_ context.Context, _ int64, roleID int64, permissionName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleGrants[roleID][permissionName], nil
}

// overrideCount returns how many override records the user has stored.
func (s *fakeStore) overrideCount(tenantID, userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants[userKey{tenantID, userID}])
}
