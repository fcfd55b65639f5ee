package stackarray

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Stacks are handed to one goroutine at a time; a pooled stack is never
// shared while checked out.
var stackPool = sync.Pool{
	New: func() any {
		poolMisses.Add(1)
		Logger().Debug("stackarray: new pooled stack")
		return NewStack(DefaultChunkSize)
	},
}

var poolGets, poolMisses, poolPuts atomix.Int64

// WithFrame borrows a pooled stack, enters a frame on it and calls fn.
// The frame exits, and the stack goes back to the pool, when fn returns.
// fn must not let the frame or anything allocated from it escape.
func WithFrame(fn func(f Frame)) {
	poolGets.Add(1)
	s := stackPool.Get().(*Stack)
	defer putStack(s)
	s.Run(fn)
}

// With allocates an array of n zeroed elements in a pooled frame and calls
// fn with it. The array is gone when With returns.
func With[T any](n int, fn func(a Array[T]) error) error {
	var err error
	WithFrame(func(f Frame) {
		var a Array[T]
		if a, err = New[T](f, n); err != nil {
			return
		}
		err = fn(a)
	})
	return err
}

func putStack(s *Stack) {
	if s.chunks == nil || s.depth != 0 {
		return
	}
	poolPuts.Add(1)
	stackPool.Put(s)
}

// PoolStats counts pooled stack traffic since process start.
type PoolStats struct {
	Gets   int64 // WithFrame calls
	Misses int64 // stacks created because the pool was empty
	Puts   int64 // stacks returned to the pool
}

// Stats returns a snapshot of the pool counters.
func Stats() PoolStats {
	return PoolStats{
		Gets:   poolGets.Load(),
		Misses: poolMisses.Load(),
		Puts:   poolPuts.Load(),
	}
}
