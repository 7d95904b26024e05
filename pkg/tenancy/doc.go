// Package tenancy defines multi-tenancy sides and the tenant context used by
// every authorization decision.
//
// # Overview
//
// A deployment is either running on the host side (operating above all
// tenants) or on behalf of one tenant. Permissions declare which sides they
// apply to (Sides flag set), and every evaluation carries an explicit
// TenantContext naming the tenant id and the resolved side.
//
// # Resolution
//
// Resolver derives the TenantContext from an active unit of work carried on
// the context, falling back to an ambient Session. The side is Host exactly
// when multi-tenancy is enabled globally and no tenant id is bound.
//
//	resolver := tenancy.NewResolver(true, tenancy.TenantSession(5), nil)
//	tc := resolver.Resolve(ctx)
//	granted, err := evaluator.IsGranted(ctx, tc, userID, "Orders.Approve")
//
// Resolve the context once per operation and pass the resulting value through
// the whole call chain; re-resolving mid-operation could observe a different
// tenant binding.
//
// Tenant id 0 is the host sentinel (HostTenantID); real tenants use positive
// ids.
package tenancy
