package stackarray

import (
	"fmt"
	"math"
	"reflect"
	"sync"
	"unsafe"
)

// header is the length prefix written in front of every array buffer.
type header struct {
	length int32
}

// layout describes the block New reserves for an element type.
type layout struct {
	hdr   uintptr // bytes from block start to the first element
	elem  uintptr // element size
	align uintptr // block alignment
}

func layoutOf[T any]() layout {
	var zero T
	elemAlign := unsafe.Alignof(zero)
	return layout{
		hdr:   alignUp(unsafe.Sizeof(header{}), elemAlign),
		elem:  unsafe.Sizeof(zero),
		align: max(elemAlign, unsafe.Alignof(header{})),
	}
}

// size returns the block size for n elements, or false on overflow.
// With n capped at MaxInt32 this only overflows where int is 32 bits.
func (l layout) size(n int) (int, bool) {
	if l.elem != 0 && uintptr(n) > (uintptr(math.MaxInt)-l.hdr)/l.elem {
		return 0, false
	}
	return int(l.hdr + uintptr(n)*l.elem), true
}

// New reserves an array of n zeroed elements of type T from f.
//
// The array is a single block: an int32 length header followed by the
// elements. It is valid until f exits and must not outlive the call that
// entered f.
func New[T any](f Frame, n int) (Array[T], error) {
	if n < 0 || n > math.MaxInt32 {
		return Array[T]{}, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	if t := reflect.TypeFor[T](); !pointerFree(t) {
		return Array[T]{}, fmt.Errorf("%w: %s", ErrUnsupportedElem, t)
	}
	l := layoutOf[T]()
	total, ok := l.size(n)
	if !ok {
		return Array[T]{}, fmt.Errorf("%w: %d elements overflow", ErrInvalidSize, n)
	}

	b, err := f.reserve(total, l.align)
	if err != nil {
		return Array[T]{}, err
	}
	// Frame memory is reused after exits; zero header and elements.
	clear(b)

	base := unsafe.Pointer(unsafe.SliceData(b))
	h := (*header)(base)
	h.length = int32(n)

	var elems []T
	if n > 0 {
		p := base
		if l.elem != 0 {
			p = unsafe.Add(base, l.hdr)
		}
		elems = unsafe.Slice((*T)(p), n)
	}
	return Array[T]{Span: Span[T]{elems: elems, frame: f}, hdr: h}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](f Frame, n int) Array[T] {
	a, err := New[T](f, n)
	if err != nil {
		panic(err)
	}
	return a
}

// pointerFreeTypes caches pointerFree results by reflect.Type.
var pointerFreeTypes sync.Map

// pointerFree reports whether values of t hold no Go pointers, so they can
// live in memory the garbage collector does not scan.
func pointerFree(t reflect.Type) bool {
	if v, ok := pointerFreeTypes.Load(t); ok {
		return v.(bool)
	}
	free := !hasPointers(t)
	pointerFreeTypes.Store(t, free)
	return free
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	default:
		return false
	}
}
