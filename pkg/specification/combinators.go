package specification

// andSpecification is satisfied when both children are satisfied.
type andSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
}

// And combines two specifications with boolean AND. Either child being nil
// fails with ErrNilSpecification.
func And[T any](left, right Specification[T]) (Specification[T], error) {
	if left == nil || right == nil {
		return nil, ErrNilSpecification
	}
	return &andSpecification[T]{left: left, right: right}, nil
}

func (s *andSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.ToPredicate()(candidate)
}

func (s *andSpecification[T]) ToPredicate() Predicate[T] {
	left := s.left.ToPredicate()
	right := s.right.ToPredicate()
	return func(candidate T) bool {
		return left(candidate) && right(candidate)
	}
}

// orSpecification is satisfied when either child is satisfied.
type orSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
}

// Or combines two specifications with boolean OR. Either child being nil
// fails with ErrNilSpecification.
func Or[T any](left, right Specification[T]) (Specification[T], error) {
	if left == nil || right == nil {
		return nil, ErrNilSpecification
	}
	return &orSpecification[T]{left: left, right: right}, nil
}

func (s *orSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.ToPredicate()(candidate)
}

func (s *orSpecification[T]) ToPredicate() Predicate[T] {
	left := s.left.ToPredicate()
	right := s.right.ToPredicate()
	return func(candidate T) bool {
		return left(candidate) || right(candidate)
	}
}

// notSpecification negates its inner specification.
type notSpecification[T any] struct {
	inner Specification[T]
}

// Not negates a specification. A nil child fails with ErrNilSpecification.
func Not[T any](inner Specification[T]) (Specification[T], error) {
	if inner == nil {
		return nil, ErrNilSpecification
	}
	return &notSpecification[T]{inner: inner}, nil
}

func (s *notSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.ToPredicate()(candidate)
}

func (s *notSpecification[T]) ToPredicate() Predicate[T] {
	inner := s.inner.ToPredicate()
	return func(candidate T) bool {
		return !inner(candidate)
	}
}
