package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ValueStore persists per-tenant feature values. A tenant with no stored
// value fails with ErrFeatureValueNotSet so the checker can fall back to the
// feature's default.
type ValueStore interface {
	GetFeatureValue(ctx context.Context, tenantID int64, name string) (string, error)
}

// Checker answers whether a feature is enabled for a tenant.
type Checker interface {
	// GetValue returns the effective feature value for the tenant.
	GetValue(ctx context.Context, tenantID int64, name string) (string, error)

	// IsEnabled reports whether the effective value reads as true.
	IsEnabled(ctx context.Context, tenantID int64, name string) (bool, error)
}

// StoreChecker resolves feature values from a ValueStore with the catalog's
// default as fallback.
type StoreChecker struct {
	catalog *Catalog
	store   ValueStore
}

// NewStoreChecker creates a checker over a catalog and value store.
func NewStoreChecker(catalog *Catalog, store ValueStore) *StoreChecker {
	return &StoreChecker{catalog: catalog, store: store}
}

func (c *StoreChecker) GetValue(ctx context.Context, tenantID int64, name string) (string, error) {
	feature, err := c.catalog.Get(name)
	if err != nil {
		return "", err
	}

	value, err := c.store.GetFeatureValue(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, ErrFeatureValueNotSet) {
			return feature.DefaultValue, nil
		}
		return "", fmt.Errorf("failed to get feature value for tenant %d: %w", tenantID, err)
	}
	return value, nil
}

func (c *StoreChecker) IsEnabled(ctx context.Context, tenantID int64, name string) (bool, error) {
	value, err := c.GetValue(ctx, tenantID, name)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(value, "true"), nil
}
