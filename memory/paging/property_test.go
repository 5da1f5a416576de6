package paging

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

// Test_RandomOps_FrameConservation drives both allocators with a fixed-seed
// mix of requests and releases and cross-checks the frame table against the
// page tables after every step.
func Test_RandomOps_FrameConservation(t *testing.T) {
	builders := map[string]func(*frame.Table) allocator{
		"paged":   func(tbl *frame.Table) allocator { return NewPaged(tbl) },
		"virtual": func(tbl *frame.Table) allocator { return NewVirtual(tbl) },
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			tbl := frame.NewTable(16, 4)
			a := build(tbl)

			handles := make([]*proc.Handle, 6)
			for i := range handles {
				handles[i] = proc.NewHandle(fmt.Sprintf("P%d", i), 4+rng.Intn(37))
			}

			for now := 1; now <= 500; now++ {
				h := handles[rng.Intn(len(handles))]
				if rng.Intn(4) == 0 {
					a.Release(h, now)
				} else {
					h.Touch(now)
					evicted, err := a.RequestAllocation(h, now)
					require.NoError(t, err, "step %d %s", now, h)
					require.IsIncreasing(t, append([]int{-1}, evicted...), "step %d", now)

					need := tbl.PagesFor(h.Requirement())
					switch alloc := a.(type) {
					case *PagedAllocator:
						require.Equal(t, need, h.ResidentCount(), "step %d", now)
					case *VirtualAllocator:
						require.GreaterOrEqual(t, h.ResidentCount(), alloc.MinRequired(h.Requirement()), "step %d", now)
					}
				}
				requireConsistent(t, tbl, handles)
			}
		})
	}
}
