// Package specification provides composable boolean predicates over arbitrary
// entity types.
//
// # Overview
//
// A Specification wraps a predicate on some type T and can be combined with
// other specifications using And, Or and Not. The composed tree translates
// back into a single plain predicate via ToPredicate, which makes the result
// usable both for direct candidate checks and as a filter for query layers
// that accept a func(T) bool.
//
// # Key Functions
//
// FromPredicate: lift a plain predicate into a Specification
//
//	tenantSide, err := specification.FromPredicate(func(p authz.Permission) bool {
//		return p.Sides.Includes(tenancy.SideTenant)
//	})
//
// And / Or / Not: structural composition with short-circuit semantics
//
//	spec, err := specification.And(tenantSide, featureGated)
//
// Filter: apply a specification to a slice
//
//	matched := specification.Filter(catalog.All(), spec)
//
// # Design Decisions
//
// Composites exclusively own their children; a specification tree is built
// once and evaluated lazily. IsSatisfiedBy and ToPredicate are guaranteed to
// agree for every candidate. Constructors reject nil children instead of
// deferring the failure to evaluation time.
package specification
