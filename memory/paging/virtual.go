package paging

import (
	"slices"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

// VirtualAllocator lets a process run with only part of its pages resident,
// as long as it holds at least min(pagesNeeded, floor) frames. Victims lose
// only as many frames as the requester needs to reach that floor.
type VirtualAllocator struct {
	core
	floor int
}

// NewVirtual returns a partial-residency allocator over frames.
func NewVirtual(frames *frame.Table, opts ...Option) *VirtualAllocator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &VirtualAllocator{
		core: core{
			frames: frames,
			policy: Partial{},
			log:    o.log,
		},
		floor: o.floor,
	}
}

// Floor returns the working-set floor.
func (a *VirtualAllocator) Floor() int { return a.floor }

// MinRequired returns min(pagesNeeded, floor) for a requirement.
func (a *VirtualAllocator) MinRequired(requirement int) int {
	return min(a.frames.PagesFor(requirement), a.floor)
}

// RequestAllocation maps as many of h's missing pages as it can, reclaiming
// frames from least recently used processes only while h could not otherwise
// reach its working-set floor.
func (a *VirtualAllocator) RequestAllocation(h *proc.Handle, now int) ([]int, error) {
	a.stats.Requests++

	need := a.frames.PagesFor(h.Requirement())
	minRequired := min(need, a.floor)
	if minRequired > a.frames.Len() {
		return a.fail(h, nil, now, "%s needs %d resident pages, table holds %d",
			h.Name(), minRequired, a.frames.Len())
	}

	pt := h.EnsurePageTable(need)
	toAdd := need - pt.MappedCount()

	var evicted []int
	for free := a.frames.FreeCount(); free < toAdd && free < a.floor; free = a.frames.FreeCount() {
		want := minRequired - (h.ResidentCount() + free)
		if want <= 0 {
			// The floor is reachable with the frames already free.
			break
		}
		victim := a.selectVictim(h)
		if victim == nil {
			return a.fail(h, evicted, now, "%s needs %d more frames to reach %d and no victim",
				h.Name(), want, minRequired)
		}
		evicted = append(evicted, a.reclaim(victim, want, now)...)
	}

	a.mapFree(h, toAdd)
	slices.Sort(evicted)

	if h.ResidentCount() < minRequired {
		return a.fail(h, evicted, now, "%s holds %d of %d required pages",
			h.Name(), h.ResidentCount(), minRequired)
	}
	return evicted, nil
}

// Release clears every frame held by h and drops its page table.
func (a *VirtualAllocator) Release(h *proc.Handle, now int) []int {
	return a.release(h, now)
}

// Admissible reports whether the working-set floor of a process with the
// given requirement fits in an empty table.
func (a *VirtualAllocator) Admissible(requirement int) bool {
	return a.MinRequired(requirement) <= a.frames.Len()
}
