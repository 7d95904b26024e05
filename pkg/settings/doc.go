// Package settings provides typed access to application-level and
// tenant-level setting values.
//
// # Overview
//
// A Provider answers setting lookups by name, either application-wide (Get)
// or scoped to a tenant (GetForTenant). Tenant lookups fall back to the
// application value when the tenant has no override; a name that is defined
// nowhere fails with ErrSettingNotFound so callers can apply their own
// defaults.
//
// # Providers
//
// StaticProvider holds fixed in-memory values, useful for tests and
// single-process embeddings. FileProvider reads a YAML file and hot-reloads
// it when the file changes on disk. ChainProvider consults several providers
// in order.
//
//	provider, err := settings.NewFileProvider("/etc/gatehouse/settings.yaml", nil)
//	if err != nil { ... }
//	defer provider.Close()
//
//	max, err := settings.IntForTenant(ctx, provider, tenantID, "gatehouse.organization_units.max_membership_count")
//	if errors.Is(err, settings.ErrSettingNotFound) {
//		max = orgunits.DefaultMaxMembershipCount
//	}
//
// # File format
//
//	settings:
//	  gatehouse.organization_units.max_membership_count: "8"
//	tenants:
//	  5:
//	    gatehouse.organization_units.max_membership_count: "2"
package settings
