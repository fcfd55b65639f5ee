package stackarray

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned by New for a negative count, or one whose
	// block would not fit in an int32 length or an int byte size.
	ErrInvalidSize = errors.New("stackarray: invalid size")

	// ErrOutOfRange is matched by every *IndexError.
	ErrOutOfRange = errors.New("stackarray: index out of range")

	// ErrUnsupportedElem is returned by New for element types that contain Go pointers.
	ErrUnsupportedElem = errors.New("stackarray: element type contains pointers")

	// ErrStackExhausted is returned when a stack created with Config.MaxBytes
	// cannot grow any further.
	ErrStackExhausted = errors.New("stackarray: stack exhausted")
)

// IndexKind tells which addressing mode an IndexError came from.
type IndexKind uint8

const (
	// Forward is a 0-based index from the start.
	Forward IndexKind = iota
	// Backwards is a 1-based index from the end.
	Backwards
	// SliceBounds is a [first:last] pair.
	SliceBounds
)

// IndexError describes a rejected index or slice bound.
type IndexError struct {
	Kind  IndexKind
	Index int // index, backwards index or first slice bound
	Last  int // last slice bound, SliceBounds only
	Len   int
}

func (e *IndexError) Error() string {
	switch e.Kind {
	case Backwards:
		return fmt.Sprintf("stackarray: backwards index ^%d out of range [^%d:^1]", e.Index, e.Len)
	case SliceBounds:
		return fmt.Sprintf("stackarray: slice bounds [%d:%d] out of range with length %d", e.Index, e.Last, e.Len)
	default:
		return fmt.Sprintf("stackarray: index %d out of range [0:%d)", e.Index, e.Len)
	}
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }
