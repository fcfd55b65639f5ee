package stackarray

// SizeInUse returns the number of bytes reserved by live frames.
// This includes padding due to alignment.
func (s *Stack) SizeInUse() int {
	if s.chunks == nil {
		return 0
	}
	return s.inUse
}

// NumChunks returns how many chunks back the stack, live frames or not.
func (s *Stack) NumChunks() int {
	return len(s.chunks)
}

// Capacity returns the bytes frames could reserve without growing the stack.
func (s *Stack) Capacity() int {
	sum := 0
	for _, c := range s.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns SizeInUse as a fraction of Capacity, 0 once released.
func (s *Stack) Utilization() float64 {
	capacity := s.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(s.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the size of a regular chunk. Oversized reservations get
// a chunk of their own.
func (s *Stack) ChunkSize() int {
	return s.chunkSize
}

// Depth returns the number of live frames.
func (s *Stack) Depth() int {
	return s.depth
}

// Peak returns the largest SizeInUse seen. It survives Reset.
func (s *Stack) Peak() int {
	return s.peak
}

// Metrics returns a snapshot of stack statistics.
func (s *Stack) Metrics() StackMetrics {
	return StackMetrics{
		SizeInUse:   s.SizeInUse(),
		Capacity:    s.Capacity(),
		NumChunks:   s.NumChunks(),
		ChunkSize:   s.ChunkSize(),
		Depth:       s.Depth(),
		Peak:        s.Peak(),
		Utilization: s.Utilization(),
	}
}

// StackMetrics contains statistical information about a stack.
type StackMetrics struct {
	SizeInUse   int     // Bytes reserved by live frames
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Depth       int     // Live frames
	Peak        int     // High-water mark of SizeInUse
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
