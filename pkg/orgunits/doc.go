// Package orgunits manages hierarchical organization units and user
// membership in them.
//
// # Hierarchy Codes
//
// The unit tree is materialized in a path code per unit: fixed-width,
// zero-padded segments joined by dots, e.g. "00001.00002" for the second
// child of the first root. A unit's descendants are exactly the units whose
// code starts with its own code as a raw string prefix, which the database
// store expresses as `code LIKE parent_code || '%'` and the in-memory store
// as a specification predicate.
//
// # Membership Limits
//
// The per-tenant setting "gatehouse.organization_units.max_membership_count"
// bounds how many units one user may join; an absent setting means
// effectively unlimited. Exceeding the limit fails with a
// *MembershipLimitError (check with IsMembershipLimit). The check is
// advisory: count-then-insert without a transaction, so concurrent adds can
// momentarily overshoot.
//
// Membership mutations are idempotent in both directions: adding an existing
// membership and removing a missing one are no-ops.
package orgunits
