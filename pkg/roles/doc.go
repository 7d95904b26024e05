// Package roles reconciles user role memberships against an external
// source of truth, typically claims from an identity provider.
//
// SetRoles applies the difference between the user's current roles and a
// target set, removals before additions. Each step is individually atomic
// but the whole reconciliation is not: a failure partway (most commonly a
// static role refusing unassignment) leaves the already-applied changes in
// place and returns the failure verbatim. Callers retry by calling SetRoles
// again with the same target.
//
// Because role membership feeds the permission snapshot cache, any applied
// change invalidates the user's snapshot before SetRoles returns, including
// on the error path.
package roles
