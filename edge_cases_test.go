package stackarray_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/stackarray"
)

// TestEdgeCases covers edge cases through the public API only
func TestEdgeCases(t *testing.T) {
	t.Run("ZeroAndNegativeChunkSizes", func(t *testing.T) {
		testCases := []struct {
			size     int
			expected int
		}{
			{0, stackarray.DefaultChunkSize},
			{-1, stackarray.DefaultChunkSize},
			{-1000, stackarray.DefaultChunkSize},
			{1, 1},
		}

		for _, tc := range testCases {
			s := stackarray.NewStack(tc.size)
			assert.Equal(t, tc.expected, s.ChunkSize(), "NewStack(%d)", tc.size)
			s.Release()
		}
	})

	t.Run("TinyChunks", func(t *testing.T) {
		s := stackarray.NewStack(1)
		defer s.Release()

		s.Run(func(f stackarray.Frame) {
			a, err := stackarray.New[int64](f, 100)
			require.NoError(t, err)
			assert.Equal(t, 100, a.Len())
			b, err := stackarray.New[byte](f, 3)
			require.NoError(t, err)
			assert.Equal(t, 3, b.Len())
		})
		assert.Equal(t, 0, s.SizeInUse())
	})

	t.Run("AlignmentEdgeCases", func(t *testing.T) {
		type align1 struct{ a int8 }
		type align8 struct{ a int64 }
		type mixed struct {
			a int8
			b int64
		}

		s := stackarray.NewStack(1024)
		defer s.Release()
		s.Run(func(f stackarray.Frame) {
			// Odd-sized blocks in between force realignment.
			a1 := stackarray.MustNew[align1](f, 3)
			a8 := stackarray.MustNew[align8](f, 3)
			_ = stackarray.MustNew[byte](f, 5)
			am := stackarray.MustNew[mixed](f, 3)

			p1, _ := a1.Ref(0)
			p8, _ := a8.Ref(1)
			pm, _ := am.Ref(2)
			assert.Zero(t, uintptr(unsafe.Pointer(p1))%unsafe.Alignof(align1{}))
			assert.Zero(t, uintptr(unsafe.Pointer(p8))%unsafe.Alignof(align8{}))
			assert.Zero(t, uintptr(unsafe.Pointer(pm))%unsafe.Alignof(mixed{}))
		})
	})

	t.Run("UseAfterRelease", func(t *testing.T) {
		s := stackarray.NewStack(1024)
		f := s.Enter()
		s.Release()

		testPanic := func(name string, fn func()) {
			t.Helper()
			assert.Panics(t, fn, "%s: expected panic after Release()", name)
		}

		testPanic("Enter", func() { s.Enter() })
		testPanic("Reserve", func() { _, _ = f.Reserve(100) })
		testPanic("Reset", func() { s.Reset() })
		testPanic("New", func() { _, _ = stackarray.New[int](f, 10) })
		testPanic("EnsureCapacity", func() { _ = s.EnsureCapacity(100) })
	})

	t.Run("MultipleReleases", func(t *testing.T) {
		s := stackarray.NewStack(1024)
		s.Release()
		s.Release()
		s.Release()
	})

	t.Run("ExtremeIndices", func(t *testing.T) {
		stackarray.WithFrame(func(f stackarray.Frame) {
			a := stackarray.MustNew[int](f, 2)
			for _, i := range []int{math.MinInt, -1, 2, math.MaxInt} {
				_, err := a.Get(i)
				assert.ErrorIs(t, err, stackarray.ErrOutOfRange, "Get(%d)", i)
				_, err = a.GetBack(i)
				assert.ErrorIs(t, err, stackarray.ErrOutOfRange, "GetBack(%d)", i)
			}
			_, err := a.SliceRange(math.MinInt, math.MaxInt)
			assert.ErrorIs(t, err, stackarray.ErrOutOfRange)
		})
	})

	t.Run("ZeroFrame", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = stackarray.New[int](stackarray.Frame{}, 1) })
		assert.False(t, stackarray.Frame{}.Live())
		stackarray.Frame{}.Exit()
	})
}

// TestMemoryCorruption checks that arrays in one frame never overlap
func TestMemoryCorruption(t *testing.T) {
	s := stackarray.NewStack(1024)
	defer s.Release()

	s.Run(func(f stackarray.Frame) {
		arrays := make([]stackarray.Array[[64]byte], 50)
		for i := range arrays {
			arrays[i] = stackarray.MustNew[[64]byte](f, 2)
			for p := range arrays[i].Refs() {
				for j := range p {
					p[j] = byte(i)
				}
			}
		}

		for i, a := range arrays {
			assert.Equal(t, 2, a.Len(), "header %d overwritten", i)
			for v := range a.All() {
				for j, b := range v {
					if b != byte(i) {
						t.Fatalf("memory corruption at array %d byte %d: got %d, want %d", i, j, b, byte(i))
					}
				}
			}
		}
	})
}

// TestNestedFramesIsolation checks that inner frames never clobber outer arrays
func TestNestedFramesIsolation(t *testing.T) {
	s := stackarray.NewStack(256)
	defer s.Release()

	var recurse func(depth int)
	recurse = func(depth int) {
		if depth == 0 {
			return
		}
		s.Run(func(f stackarray.Frame) {
			a := stackarray.MustNew[int32](f, depth*4)
			a.Fill(int32(depth))

			recurse(depth - 1)

			for v := range a.All() {
				require.Equal(t, int32(depth), v)
			}
		})
	}
	recurse(20)
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, s.SizeInUse())
	assert.Greater(t, s.NumChunks(), 1)
}
