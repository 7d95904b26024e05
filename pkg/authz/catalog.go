package authz

import (
	"fmt"
	"sync"

	"github.com/platinummonkey/gatehouse/pkg/specification"
)

// Catalog holds every permission definition of the application. Define all
// permissions at startup; lookups after that are read-only and safe for
// concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	byName map[string]Permission
	order  []string
}

// NewCatalog creates an empty permission catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Permission)}
}

// Define registers a permission. The name must be non-empty and unique.
func (c *Catalog) Define(p Permission) error {
	if p.Name == "" {
		return fmt.Errorf("authz: permission name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[p.Name]; exists {
		return fmt.Errorf("permission %q: %w", p.Name, ErrDuplicatePermission)
	}

	c.byName[p.Name] = p
	c.order = append(c.order, p.Name)
	return nil
}

// Get returns the permission definition for name.
func (c *Catalog) Get(name string) (Permission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byName[name]
	if !ok {
		return Permission{}, fmt.Errorf("permission %q: %w", name, ErrPermissionNotFound)
	}
	return p, nil
}

// All returns every defined permission in definition order.
func (c *Catalog) All() []Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]Permission, 0, len(c.order))
	for _, name := range c.order {
		all = append(all, c.byName[name])
	}
	return all
}

// Match returns the permissions satisfying spec, in definition order.
func (c *Catalog) Match(spec specification.Specification[Permission]) []Permission {
	return specification.Filter(c.All(), spec)
}
