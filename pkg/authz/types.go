package authz

import (
	"fmt"

	"github.com/platinummonkey/gatehouse/pkg/features"
	"github.com/platinummonkey/gatehouse/pkg/tenancy"
)

// Permission is a named, immutable capability definition. Permissions are
// defined once at startup in a Catalog and never mutated at runtime.
type Permission struct {
	// Name uniquely identifies the permission within the catalog, e.g.
	// "documents.edit".
	Name string

	// DisplayName is a human-readable label.
	DisplayName string

	// Description explains what the permission allows.
	Description string

	// Sides restricts which multi-tenancy sides the permission applies to.
	Sides tenancy.Sides

	// Feature optionally gates the permission on tenant feature state. It is
	// only evaluated on the tenant side; a nil Feature means no requirement.
	Feature features.Dependency
}

// GrantInfo is one stored permission override for a user. IsGranted true is
// an explicit grant, false an explicit prohibition.
type GrantInfo struct {
	Name      string `json:"name"`
	IsGranted bool   `json:"is_granted"`
}

// CacheItem is the cached permission snapshot for one user in one tenant.
// It is JSON-serializable so the Redis cache can store it across processes.
//
// Granted and Prohibited never share a name; the Manager maintains that
// invariant on every mutation.
type CacheItem struct {
	UserID   int64 `json:"user_id"`
	TenantID int64 `json:"tenant_id"`

	RoleIDs []int64 `json:"role_ids"`

	Granted    []string `json:"granted"`
	Prohibited []string `json:"prohibited"`
}

// IsGranted reports whether the user holds an explicit grant for name.
func (c *CacheItem) IsGranted(name string) bool {
	return contains(c.Granted, name)
}

// IsProhibited reports whether the user holds an explicit prohibition for
// name.
func (c *CacheItem) IsProhibited(name string) bool {
	return contains(c.Prohibited, name)
}

// HasRole reports whether the snapshot includes the given role.
func (c *CacheItem) HasRole(roleID int64) bool {
	for _, id := range c.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// CacheKey is the cache key for a user's permission snapshot. Tenant id 0 is
// the host sentinel (tenancy.HostTenantID).
func CacheKey(userID, tenantID int64) string {
	return fmt.Sprintf("%d@%d", userID, tenantID)
}
