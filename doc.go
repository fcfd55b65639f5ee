// Package stackarray provides bounds-checked, runtime-sized arrays carved
// from a frame-scoped stack region instead of the garbage-collected heap.
//
// # Overview
//
// Go has no alloca. What a stack array needs from alloca is a bump region
// whose memory is reclaimed, all at once, when the enclosing call returns.
// A [Stack] is exactly that: a chunked LIFO bump region. A [Frame] is one
// level of it. Memory reserved through a frame stays valid until the frame
// exits, and exiting rewinds the stack to where the frame began.
//
// This is useful for:
//
//   - Short-lived scratch buffers whose size is only known at run time
//   - Hot loops that would otherwise call make() on every iteration
//   - Keeping temporary data out of the garbage collector's way
//
// # Basic Usage
//
//	stackarray.WithFrame(func(f stackarray.Frame) {
//		a, err := stackarray.New[int](f, n)
//		if err != nil {
//			return
//		}
//		_ = a.Set(0, 10)
//		for i, v := range a.Pairs() {
//			fmt.Println(i, v)
//		}
//	}) // every array allocated in f is gone here
//
// With a dedicated stack:
//
//	s := stackarray.NewStack(0) // default chunk size
//	defer s.Release()
//
//	s.Run(func(f stackarray.Frame) {
//		a := stackarray.MustNew[float64](f, 128)
//		a.Fill(1)
//	})
//
// # Memory Layout
//
// [New] reserves one contiguous block per array: a header holding the
// int32 length, followed by the elements. The header slot is padded up to
// the element alignment, so the buffer starts at header + headerSize. The
// whole block is zeroed before the array is returned.
//
// Frame memory is untyped and not scanned by the garbage collector, so
// element types must not contain Go pointers. [New] rejects such types
// with [ErrUnsupportedElem].
//
// # Access
//
// Every index is checked against the length:
//
//   - Get, Set and Ref take a forward index in [0, Len())
//   - GetBack, SetBack and RefBack take a backwards index in [1, Len()],
//     where 1 is the last element
//   - Slice, SliceFrom and SliceRange return a [Span] over a sub-range
//     without copying
//
// Violations return an [*IndexError] matching [ErrOutOfRange].
//
// # Lifetime Rules
//
//   - An array is valid only until its frame exits; any use afterwards panics
//   - Never return an array, or a Span derived from it, from the function
//     that created its frame
//   - Never hand a frame or an array to another goroutine, and never keep one
//     in a closure that runs later
//   - A Stack is not goroutine-safe; use [WithFrame] to borrow one per call
//   - Clone copies the elements to the heap when they must outlive the frame
//
// # Stack Exhaustion
//
// A stack grows by whole chunks and is only bounded when created with
// [Config.MaxBytes]; in that case [New] reports [ErrStackExhausted].
package stackarray
