package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newWithHoles builds an allocator of the given size whose free list is
// exactly holes. Everything outside the holes counts as allocated.
func newWithHoles(t testing.TB, total int, holes []Hole) *Allocator {
	t.Helper()

	a := New(total)
	addr, err := a.Allocate(total)
	require.NoError(t, err)
	require.Equal(t, 0, addr)

	for _, h := range holes {
		a.Deallocate(h.Start, h.Size)
	}
	require.Equal(t, holes, a.Holes(), "fixture holes must already be coalesced")
	return a
}

// requireInvariants checks ordering, disjointness, no-adjacency and
// conservation against the ranges the test believes are allocated.
func requireInvariants(t testing.TB, a *Allocator, allocated map[int]int) {
	t.Helper()

	holes := a.Holes()
	free := 0
	for i, h := range holes {
		require.Positive(t, h.Size, "hole %v has non-positive size", h)
		require.GreaterOrEqual(t, h.Start, 0, "hole %v starts before 0", h)
		require.LessOrEqual(t, h.End(), a.Total(), "hole %v ends past total", h)
		if i > 0 {
			prev := holes[i-1]
			require.Less(t, prev.End(), h.Start,
				"holes %v and %v overlap or touch", prev, h)
		}
		free += h.Size
	}

	used := 0
	for addr, size := range allocated {
		used += size
		for _, h := range holes {
			overlap := addr < h.End() && h.Start < addr+size
			require.False(t, overlap, "allocation [%d,%d) overlaps hole %v", addr, addr+size, h)
		}
	}

	require.Equal(t, free, a.FreeBytes(), "free byte counter drifted")
	require.Equal(t, a.Total(), free+used, "holes + allocations must cover memory")
	require.Equal(t, used, a.UsedBytes())
}
