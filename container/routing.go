package container

// Predicate decides whether an output item matches a registered routing
// edge (§4.6, §4.7). Predicates are evaluated in registration order; the
// first match wins.
type Predicate[T any] func(item T) bool

// Always returns a predicate that matches every item, used for
// unconditional links and as the broadcaster's primary-output edge.
func Always[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// Not inverts a predicate.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(item T) bool { return !p(item) }
}

// And combines predicates with logical AND.
func And[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range predicates {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range predicates {
			if p(item) {
				return true
			}
		}
		return false
	}
}

// OfType builds the predicate behind the downcast-link convenience
// (TransformAndLinkType): it matches items whose dynamic value can be
// asserted to TTarget.
func OfType[TOut, TTarget any]() Predicate[TOut] {
	return func(item TOut) bool {
		var asAny any = item
		_, ok := asAny.(TTarget)
		return ok
	}
}
