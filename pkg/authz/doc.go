// Package authz is the core of the Gatehouse authorization subsystem: a
// multi-tenant permission evaluator with explicit per-user overrides layered
// on top of role grants.
//
// # Overview
//
// Applications define their permissions once at startup in a Catalog, each
// with a name, the multi-tenancy sides it applies to, and an optional
// feature dependency. The Evaluator answers IsGranted checks against that
// catalog; the Manager mutates per-user overrides (explicit grants and
// prohibitions) without touching role definitions.
//
// # Evaluation Order
//
// IsGranted evaluates in a strict order, each step able to short-circuit:
//
//  1. Side check: a permission scoped to the host side is never granted on
//     the tenant side and vice versa.
//  2. Feature check (tenant side only): a permission with an unsatisfied
//     feature dependency is denied.
//  3. Snapshot fetch: the user's cached permission snapshot is loaded,
//     populating the cache on a miss. A user that does not exist evaluates
//     to false without an error.
//  4. An explicit user grant wins.
//  5. An explicit user prohibition denies, even when a role grants the
//     permission.
//  6. Otherwise any role of the user granting the permission wins.
//  7. Default deny.
//
// The precedence is therefore exactly
//
//	user grant > user prohibition > role grant > deny
//
// # Tenant Context
//
// Every check takes an explicit tenancy.TenantContext. Resolve it once per
// operation (see tenancy.Resolver) and pass the same value through the whole
// call chain; the evaluator never re-reads ambient state mid-evaluation.
//
// # Caching
//
// Snapshots are keyed by CacheKey(userID, tenantID) and populated through a
// single-flight cache (see the cache package): concurrent misses for one
// user collapse into one store load. Every Manager mutation invalidates the
// user's key; an invalidation failure fails the mutation, so a caller that
// observes a successful mutation never reads a stale snapshot afterwards.
//
// # Usage
//
//	catalog := authz.NewCatalog()
//	_ = catalog.Define(authz.Permission{
//		Name:  "documents.edit",
//		Sides: tenancy.SideTenant,
//	})
//
//	evaluator, err := authz.NewEvaluator(authz.EvaluatorConfig{
//		Catalog:    catalog,
//		Users:      store, // must implement authz.PermissionStore
//		Roles:      store,
//		RoleGrants: store,
//		Cache:      cache.NewMemory[*authz.CacheItem](cache.DefaultMemorySize, cache.DefaultMemoryTTL),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tc := tenancy.ForTenant(42)
//	ok, err := evaluator.IsGranted(ctx, tc, userID, "documents.edit")
//
// The user store must carry the PermissionStore capability; NewEvaluator
// fails fast with ErrPermissionStoreRequired otherwise. That keeps the
// capability check a one-time wiring concern instead of a per-check type
// test.
package authz
