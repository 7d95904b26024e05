package features

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrFeatureNotFound is returned when a feature name is not in the
	// catalog.
	ErrFeatureNotFound = errors.New("features: feature not defined")

	// ErrFeatureValueNotSet is returned by a ValueStore when the tenant has
	// no stored value for a feature.
	ErrFeatureValueNotSet = errors.New("features: feature value not set")
)

// Feature is a named capability that can be toggled per tenant. Features are
// defined at startup and never mutated afterwards.
type Feature struct {
	Name         string
	DisplayName  string
	Description  string
	DefaultValue string
}

// Catalog holds the feature definitions of the hosting application. Define
// everything during startup; reads are lock-free afterwards only in the
// sense that they never mutate.
type Catalog struct {
	mu       sync.RWMutex
	features map[string]Feature
	order    []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{features: make(map[string]Feature)}
}

// Define registers a feature. Empty or duplicate names are rejected.
func (c *Catalog) Define(f Feature) error {
	if f.Name == "" {
		return fmt.Errorf("features: feature name must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.features[f.Name]; exists {
		return fmt.Errorf("features: feature %q already defined", f.Name)
	}
	c.features[f.Name] = f
	c.order = append(c.order, f.Name)
	return nil
}

// Get returns a defined feature by name.
func (c *Catalog) Get(name string) (Feature, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.features[name]
	if !ok {
		return Feature{}, fmt.Errorf("feature %q: %w", name, ErrFeatureNotFound)
	}
	return f, nil
}

// All returns every defined feature in definition order.
func (c *Catalog) All() []Feature {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]Feature, 0, len(c.order))
	for _, name := range c.order {
		all = append(all, c.features[name])
	}
	return all
}
