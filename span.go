package stackarray

import (
	"fmt"
	"slices"
	"unsafe"
)

// Array is a fixed-length array allocated by New. Its length lives in the
// header in front of the buffer and never changes.
//
// Array embeds Span, so the whole access surface is available on it.
type Array[T any] struct {
	Span[T]
	hdr *header
}

// Len returns the length recorded in the array header.
func (a Array[T]) Len() int {
	a.check()
	if a.hdr == nil {
		return 0
	}
	return int(a.hdr.length)
}

// High returns the last valid index, -1 when empty.
func (a Array[T]) High() int { return a.Len() - 1 }

// Header returns the address of the length header, the start of the block.
func (a Array[T]) Header() unsafe.Pointer {
	a.check()
	return unsafe.Pointer(a.hdr)
}

// Bytes returns the size of the block, header included.
func (a Array[T]) Bytes() int {
	if a.hdr == nil {
		return 0
	}
	n, _ := layoutOf[T]().size(a.Len())
	return n
}

// Span is a bounds-checked view over contiguous elements of an Array.
// Spans never copy; they share the array's memory and lifetime.
type Span[T any] struct {
	elems []T
	frame Frame
}

// check panics if the span's frame has exited.
func (s Span[T]) check() {
	if s.frame.stack != nil && !s.frame.Live() {
		panic("stackarray: use after frame exit")
	}
}

// Len returns the number of elements.
func (s Span[T]) Len() int {
	s.check()
	return len(s.elems)
}

// Low returns the first valid index.
func (s Span[T]) Low() int { return 0 }

// High returns the last valid index, -1 when empty.
func (s Span[T]) High() int { return s.Len() - 1 }

// Ref returns a pointer to element i, 0 <= i < Len().
func (s Span[T]) Ref(i int) (*T, error) {
	s.check()
	if uint(i) >= uint(len(s.elems)) {
		return nil, &IndexError{Kind: Forward, Index: i, Len: len(s.elems)}
	}
	return &s.elems[i], nil
}

// Get returns element i.
func (s Span[T]) Get(i int) (T, error) {
	p, err := s.Ref(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set overwrites element i with v.
func (s Span[T]) Set(i int, v T) error {
	p, err := s.Ref(i)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// RefBack returns a pointer to the k-th element from the end; 1 is the last.
func (s Span[T]) RefBack(k int) (*T, error) {
	s.check()
	n := len(s.elems)
	if k < 1 || k > n {
		return nil, &IndexError{Kind: Backwards, Index: k, Len: n}
	}
	return &s.elems[n-k], nil
}

// GetBack returns the k-th element from the end.
func (s Span[T]) GetBack(k int) (T, error) {
	p, err := s.RefBack(k)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// SetBack overwrites the k-th element from the end with v.
func (s Span[T]) SetBack(k int, v T) error {
	p, err := s.RefBack(k)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Slice returns a span over all elements.
func (s Span[T]) Slice() Span[T] {
	s.check()
	return s
}

// SliceFrom returns a span over [first, Len()). first == Len() gives an empty span.
func (s Span[T]) SliceFrom(first int) (Span[T], error) {
	return s.SliceRange(first, len(s.elems))
}

// SliceRange returns a span over [first, last), 0 <= first <= last <= Len().
func (s Span[T]) SliceRange(first, last int) (Span[T], error) {
	s.check()
	n := len(s.elems)
	if first < 0 || first > last || last > n {
		return Span[T]{}, &IndexError{Kind: SliceBounds, Index: first, Last: last, Len: n}
	}
	return Span[T]{elems: s.elems[first:last:last], frame: s.frame}, nil
}

// Fill sets every element to v.
func (s Span[T]) Fill(v T) {
	s.check()
	for i := range s.elems {
		s.elems[i] = v
	}
}

// CopyTo copies elements into dst and returns how many were copied.
func (s Span[T]) CopyTo(dst []T) int {
	s.check()
	return copy(dst, s.elems)
}

// Clone returns a heap copy of the elements, safe to keep after the frame exits.
func (s Span[T]) Clone() []T {
	s.check()
	return append(make([]T, 0, len(s.elems)), s.elems...)
}

// String formats the elements like a Go slice.
func (s Span[T]) String() string {
	s.check()
	return fmt.Sprint(s.elems)
}

// Equal reports whether a and b have the same length and elements.
func Equal[T comparable](a, b Span[T]) bool {
	a.check()
	b.check()
	return slices.Equal(a.elems, b.elems)
}
