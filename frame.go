package stackarray

// Frame is one level of a Stack. Memory reserved through a frame is valid
// until the frame exits. A Frame is a small value; copies refer to the
// same frame.
//
// A frame belongs to the goroutine that entered it. Do not keep it, or
// anything allocated from it, past the call that entered it.
type Frame struct {
	stack *Stack
	level int
	epoch uint64
}

// Live reports whether the frame has been entered and not yet exited.
func (f Frame) Live() bool {
	s := f.stack
	return s != nil && f.level < s.depth && s.frames[f.level].epoch == f.epoch
}

// Depth returns the frame's nesting level, 0 for the outermost frame.
func (f Frame) Depth() int { return f.level }

// Reserve returns n bytes from the frame, aligned to the pointer size.
// The bytes are not zeroed. Returns nil if n <= 0.
// Panics if f is not the innermost live frame of its stack.
func (f Frame) Reserve(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	return f.reserve(n, ptrAlign)
}

func (f Frame) reserve(n int, align uintptr) ([]byte, error) {
	s := f.stack
	if s == nil {
		panic("stackarray: reserve on zero Frame")
	}
	s.panicIfReleased()
	if !f.Live() {
		panic("stackarray: use after frame exit")
	}
	if f.level != s.depth-1 {
		panic("stackarray: reserve on a frame that is not innermost")
	}
	return s.reserve(n, align)
}

// Exit rewinds the stack to where the frame was entered. Exiting a frame
// that already exited is a no-op. Panics if an inner frame is still live.
func (f Frame) Exit() {
	if !f.Live() {
		return
	}
	s := f.stack
	if f.level != s.depth-1 {
		panic("stackarray: frame exited out of order")
	}
	f.unwindFrom()
}

// unwindFrom exits f together with any inner frames still open.
func (f Frame) unwindFrom() {
	if !f.Live() {
		return
	}
	s := f.stack
	s.unwind(s.frames[f.level].mark)
	for i := f.level; i < s.depth; i++ {
		s.frames[i].epoch = 0
	}
	s.depth = f.level
}
