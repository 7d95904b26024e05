package specification

import "errors"

// ErrNilSpecification is returned when a combinator is constructed with a nil
// child specification or a nil predicate.
var ErrNilSpecification = errors.New("specification: nil child specification")

// Predicate is a plain boolean function over T, the translation target for
// specification trees. Query layers that filter by func(T) bool can consume
// it directly.
type Predicate[T any] func(T) bool

// Specification is a composable predicate over T.
//
// IsSatisfiedBy and ToPredicate must agree: for every candidate c,
// s.IsSatisfiedBy(c) == s.ToPredicate()(c).
type Specification[T any] interface {
	// IsSatisfiedBy reports whether the candidate matches the specification.
	IsSatisfiedBy(candidate T) bool

	// ToPredicate translates the specification into a plain predicate.
	ToPredicate() Predicate[T]
}

// predicateSpecification lifts a bare predicate into a Specification.
type predicateSpecification[T any] struct {
	predicate Predicate[T]
}

// FromPredicate wraps a plain predicate as a Specification. A nil predicate
// fails with ErrNilSpecification.
func FromPredicate[T any](p Predicate[T]) (Specification[T], error) {
	if p == nil {
		return nil, ErrNilSpecification
	}
	return &predicateSpecification[T]{predicate: p}, nil
}

func (s *predicateSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.predicate(candidate)
}

func (s *predicateSpecification[T]) ToPredicate() Predicate[T] {
	return s.predicate
}

// Any returns a specification satisfied by every candidate.
func Any[T any]() Specification[T] {
	return &predicateSpecification[T]{predicate: func(T) bool { return true }}
}

// None returns a specification satisfied by no candidate.
func None[T any]() Specification[T] {
	return &predicateSpecification[T]{predicate: func(T) bool { return false }}
}

// Filter returns the items satisfying the specification, preserving input
// order. A nil specification matches nothing.
func Filter[T any](items []T, spec Specification[T]) []T {
	if spec == nil {
		return nil
	}
	matched := make([]T, 0, len(items))
	pred := spec.ToPredicate()
	for _, item := range items {
		if pred(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
