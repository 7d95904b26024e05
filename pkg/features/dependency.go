package features

import "context"

// Dependency gates a permission on tenant feature state. A nil Dependency on
// a permission means the permission has no feature requirement.
type Dependency interface {
	// IsSatisfied evaluates the dependency against the tenant's feature
	// values.
	IsSatisfied(ctx context.Context, checker Checker, tenantID int64) (bool, error)
}

// SimpleDependency requires one or more named features to be enabled.
type SimpleDependency struct {
	Features    []string
	RequiresAll bool
}

func (d *SimpleDependency) IsSatisfied(ctx context.Context, checker Checker, tenantID int64) (bool, error) {
	if len(d.Features) == 0 {
		return true, nil
	}
	for _, name := range d.Features {
		enabled, err := checker.IsEnabled(ctx, tenantID, name)
		if err != nil {
			return false, err
		}
		if d.RequiresAll && !enabled {
			return false, nil
		}
		if !d.RequiresAll && enabled {
			return true, nil
		}
	}
	return d.RequiresAll, nil
}

// RequiresFeature declares a dependency on a single feature.
func RequiresFeature(name string) Dependency {
	return &SimpleDependency{Features: []string{name}, RequiresAll: true}
}

// RequiresAllFeatures declares a dependency satisfied only when every named
// feature is enabled.
func RequiresAllFeatures(names ...string) Dependency {
	return &SimpleDependency{Features: names, RequiresAll: true}
}

// RequiresAnyFeature declares a dependency satisfied when at least one named
// feature is enabled.
func RequiresAnyFeature(names ...string) Dependency {
	return &SimpleDependency{Features: names}
}
