package paging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

type allocator interface {
	RequestAllocation(h *proc.Handle, now int) ([]int, error)
	Release(h *proc.Handle, now int) []int
	Frames() *frame.Table
}

// admit creates a handle, stamps it and makes it resident, failing the test if
// anything was evicted on the way.
func admit(t testing.TB, a allocator, name string, requirement, now int) *proc.Handle {
	t.Helper()

	h := proc.NewHandle(name, requirement)
	h.Touch(now)
	evicted, err := a.RequestAllocation(h, now)
	require.NoError(t, err)
	require.Empty(t, evicted, "admitting %s evicted frames", name)
	return h
}

// pagesOf returns the mapped page indices of h in page order.
func pagesOf(h *proc.Handle) []int {
	pt := h.PageTable()
	if pt == nil {
		return nil
	}
	var out []int
	for p := 0; p < pt.Len(); p++ {
		if pt.Get(p).IsMapped() {
			out = append(out, p)
		}
	}
	return out
}

// requireConsistent cross-checks the frame table against every handle's page
// table.
func requireConsistent(t testing.TB, tbl *frame.Table, handles []*proc.Handle) {
	t.Helper()

	resident := 0
	for _, h := range handles {
		resident += h.ResidentCount()
		require.Equal(t, tbl.FramesOf(h), h.Frames(), "%s frames disagree", h)
		if h.ResidentCount() == 0 {
			require.Nil(t, h.PageTable(), "%s holds no frames but kept its page table", h)
		}
	}
	require.Equal(t, tbl.OccupiedCount(), resident, "owned frames != mapped pages")

	tbl.Owners(func(i int, owner *proc.Handle) {
		f := tbl.Get(i)
		got, ok := owner.PageTable().Get(f.Page).Frame()
		require.True(t, ok, "frame %d: %s page %d unmapped", i, owner, f.Page)
		require.Equal(t, i, got, "frame %d: %s page %d maps elsewhere", i, owner, f.Page)
	})
}
