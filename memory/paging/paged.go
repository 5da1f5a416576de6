package paging

import (
	"slices"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

// PagedAllocator keeps every process either fully resident or not resident
// at all. Space is made by evicting whole processes, least recently used
// first.
type PagedAllocator struct {
	core
}

// NewPaged returns a whole-process allocator over frames.
func NewPaged(frames *frame.Table, opts ...Option) *PagedAllocator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PagedAllocator{core: core{
		frames: frames,
		policy: WholeProcess{},
		log:    o.log,
	}}
}

// RequestAllocation makes h fully resident, evicting least recently used
// processes until enough frames are free. The returned frames are the ones
// cleared from victims, ascending.
func (a *PagedAllocator) RequestAllocation(h *proc.Handle, now int) ([]int, error) {
	a.stats.Requests++

	need := a.frames.PagesFor(h.Requirement())
	if need > a.frames.Len() {
		return a.fail(h, nil, now, "%s needs %d pages, table holds %d", h.Name(), need, a.frames.Len())
	}

	pt := h.EnsurePageTable(need)
	missing := need - pt.MappedCount()
	if missing == 0 {
		return nil, nil
	}

	var evicted []int
	for a.frames.FreeCount() < missing {
		victim := a.selectVictim(h)
		if victim == nil {
			return a.fail(h, evicted, now, "%s needs %d frames, %d free and no victim",
				h.Name(), missing, a.frames.FreeCount())
		}
		evicted = append(evicted, a.reclaim(victim, missing, now)...)
	}

	a.mapFree(h, missing)
	slices.Sort(evicted)

	if h.ResidentCount() != need {
		return a.fail(h, evicted, now, "%s mapped %d of %d pages", h.Name(), h.ResidentCount(), need)
	}
	return evicted, nil
}

// Release clears every frame held by h and drops its page table. The cleared
// frames are returned ascending, possibly empty.
func (a *PagedAllocator) Release(h *proc.Handle, now int) []int {
	return a.release(h, now)
}

// Admissible reports whether a process of the given requirement fits in an
// empty table.
func (a *PagedAllocator) Admissible(requirement int) bool {
	return a.frames.PagesFor(requirement) <= a.frames.Len()
}
