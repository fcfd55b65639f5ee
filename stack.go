package stackarray

import (
	"fmt"
	"math"
	"unsafe"

	"go.uber.org/zap"
)

// DefaultChunkSize is the default chunk size for new stacks (64 KiB).
const DefaultChunkSize = 1 << 16

// ptrAlign is the alignment used by Frame.Reserve.
const ptrAlign = unsafe.Sizeof(uintptr(0))

// chunk represents a single memory chunk within a stack.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // first free byte within buf
}

// mark is a stack position.
type mark struct {
	chunk  int
	offset uintptr
}

// frameRecord is the stack-side state of a live frame.
type frameRecord struct {
	epoch uint64
	mark  mark
}

// Config configures a Stack.
type Config struct {
	// ChunkSize is the size of each backing chunk. If <= 0, DefaultChunkSize is used.
	ChunkSize int

	// MaxBytes caps the total capacity of all chunks. Values <= 0 mean unlimited.
	MaxBytes int

	// Logger receives debug events. If nil, the package Logger is used.
	Logger *zap.Logger
}

// Stack is a chunked LIFO bump region backing frames. Not goroutine-safe:
// a stack must be used by one goroutine at a time. Use WithFrame to borrow
// a pooled stack.
type Stack struct {
	chunks    []chunk
	chunkSize int
	maxBytes  int
	cur       int // chunk currently bumped

	frames []frameRecord // frames[:depth] are live
	depth  int
	epoch  uint64

	inUse int
	peak  int

	log *zap.Logger
}

// NewStack creates a new Stack with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewStack(chunkSize int) *Stack {
	return NewStackWithConfig(Config{ChunkSize: chunkSize})
}

// NewStackWithConfig creates a new Stack from cfg.
func NewStackWithConfig(cfg Config) *Stack {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MaxBytes < 0 {
		cfg.MaxBytes = 0
	}
	if cfg.MaxBytes > 0 && cfg.ChunkSize > cfg.MaxBytes {
		cfg.ChunkSize = cfg.MaxBytes
	}
	s := &Stack{
		chunkSize: cfg.ChunkSize,
		maxBytes:  cfg.MaxBytes,
		log:       cfg.Logger,
	}
	// The first chunk always fits in MaxBytes.
	_ = s.grow(cfg.ChunkSize)
	return s
}

// Enter pushes a new innermost frame. The frame must be exited before the
// frame that was innermost when it was entered.
func (s *Stack) Enter() Frame {
	s.panicIfReleased()
	s.epoch++
	rec := frameRecord{
		epoch: s.epoch,
		mark:  mark{chunk: s.cur, offset: s.chunks[s.cur].offset},
	}
	if s.depth < len(s.frames) {
		s.frames[s.depth] = rec
	} else {
		s.frames = append(s.frames, rec)
	}
	f := Frame{stack: s, level: s.depth, epoch: s.epoch}
	s.depth++
	return f
}

// Run enters a frame, calls fn with it and exits the frame when fn returns
// or panics. Frames fn left open are exited too.
func (s *Stack) Run(fn func(f Frame)) {
	f := s.Enter()
	defer f.unwindFrom()
	fn(f)
}

// EnsureCapacity makes sure the next reservation of up to n bytes does not
// need a new chunk, growing the stack if necessary.
func (s *Stack) EnsureCapacity(n int) error {
	s.panicIfReleased()
	if err := checkRequest(n, ptrAlign); err != nil {
		return err
	}
	for i := s.cur; i < len(s.chunks); i++ {
		c := &s.chunks[i]
		if c.alignedOffset(ptrAlign)+uintptr(n) <= uintptr(len(c.buf)) {
			return nil
		}
	}
	cur := s.cur
	if err := s.grow(n + int(ptrAlign)); err != nil {
		return err
	}
	// grow moved cur to the new chunk; keep bumping the current one first.
	s.cur = cur
	return nil
}

// Reset exits every frame and rewinds all chunks, keeping them for reuse.
func (s *Stack) Reset() {
	s.panicIfReleased()
	for i := range s.chunks {
		s.chunks[i].offset = 0
	}
	s.cur = 0
	s.depth = 0
	s.inUse = 0
}

// Release drops all chunks and makes the stack unusable.
// Any subsequent operations will panic.
func (s *Stack) Release() {
	if s.chunks != nil {
		s.logger().Debug("stackarray: stack released",
			zap.Int("chunks", len(s.chunks)),
			zap.Int("peak", s.peak))
	}
	s.chunks = nil
	s.frames = nil
	s.depth = 0
	s.cur = 0
	s.inUse = 0
}

// reserve bumps n bytes aligned to align.
func (s *Stack) reserve(n int, align uintptr) ([]byte, error) {
	if err := checkRequest(n, align); err != nil {
		return nil, err
	}
	// Fast path: current chunk
	if b, ok := s.take(s.cur, n, align); ok {
		return b, nil
	}
	return s.reserveSlow(n, align)
}

// reserveSlow moves to a later chunk with room, or grows the stack.
func (s *Stack) reserveSlow(n int, align uintptr) ([]byte, error) {
	// Chunks past cur are free; they were rewound by an earlier exit.
	for i := s.cur + 1; i < len(s.chunks); i++ {
		if b, ok := s.take(i, n, align); ok {
			s.cur = i
			return b, nil
		}
	}
	if err := s.grow(n + int(align)); err != nil {
		return nil, err
	}
	b, ok := s.take(s.cur, n, align)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes do not fit a fresh chunk", ErrStackExhausted, n)
	}
	return b, nil
}

// checkRequest rejects requests whose padded size does not fit in an int.
func checkRequest(n int, align uintptr) error {
	if n > math.MaxInt-int(align) {
		return fmt.Errorf("%w: request of %d bytes", ErrStackExhausted, n)
	}
	return nil
}

// take bumps chunk i if it has room for n bytes at align.
func (s *Stack) take(i, n int, align uintptr) ([]byte, bool) {
	c := &s.chunks[i]
	off := c.alignedOffset(align)
	end := off + uintptr(n)
	if end > uintptr(len(c.buf)) {
		return nil, false
	}
	s.inUse += int(end - c.offset)
	if s.inUse > s.peak {
		s.peak = s.inUse
	}
	c.offset = end
	return c.buf[off:end:end], true
}

// unwind rewinds the stack to m.
func (s *Stack) unwind(m mark) {
	for i := m.chunk + 1; i < len(s.chunks); i++ {
		s.chunks[i].offset = 0
	}
	s.chunks[m.chunk].offset = m.offset
	s.cur = m.chunk

	s.inUse = 0
	for i := 0; i <= m.chunk; i++ {
		s.inUse += int(s.chunks[i].offset)
	}
}

// grow appends a new chunk of at least min bytes and makes it current.
func (s *Stack) grow(min int) error {
	size := s.chunkSize
	if min > size {
		size = min
	}
	if s.maxBytes > 0 && size > s.maxBytes-s.Capacity() {
		return fmt.Errorf("%w: need %d bytes, capacity %d of %d",
			ErrStackExhausted, size, s.Capacity(), s.maxBytes)
	}
	s.chunks = append(s.chunks, chunk{buf: make([]byte, size)})
	s.cur = len(s.chunks) - 1
	s.logger().Debug("stackarray: chunk added",
		zap.Int("size", size),
		zap.Int("chunks", len(s.chunks)))
	return nil
}

func (s *Stack) logger() *zap.Logger {
	if s.log != nil {
		return s.log
	}
	return Logger()
}

// panicIfReleased panics if the stack has been released.
func (s *Stack) panicIfReleased() {
	if s.chunks == nil {
		panic("stackarray: use after Release()")
	}
}

// alignedOffset returns the first offset at or after c.offset whose
// address is a multiple of align.
func (c *chunk) alignedOffset(align uintptr) uintptr {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	return alignUp(base+c.offset, align) - base
}

// alignUp rounds x up to a multiple of align, a power of two.
func alignUp(x, align uintptr) uintptr {
	mask := align - 1
	return (x + mask) &^ mask
}
