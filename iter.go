package stackarray

import "iter"

// The range of every iterator is fixed from the length when iteration
// starts; elements are then read without per-element checks.

// All yields the elements in index order.
func (s Span[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.check()
		for _, v := range s.elems {
			if !yield(v) {
				return
			}
		}
	}
}

// Refs yields a pointer to each element in index order, for in-place updates.
// Do not run two mutating traversals over the same elements at once.
func (s Span[T]) Refs() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s.check()
		for i := range s.elems {
			if !yield(&s.elems[i]) {
				return
			}
		}
	}
}

// Pairs yields (index, element) in index order.
func (s Span[T]) Pairs() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s.check()
		for i, v := range s.elems {
			if !yield(i, v) {
				return
			}
		}
	}
}

// PairRefs yields (index, pointer to element) in index order.
func (s Span[T]) PairRefs() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		s.check()
		for i := range s.elems {
			if !yield(i, &s.elems[i]) {
				return
			}
		}
	}
}
