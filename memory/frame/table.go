// Package frame implements the fixed-size frame table shared by the paging
// allocators.
//
// The table is pure bookkeeping: it records which process owns each frame and
// which logical page the frame holds. Policy (who gets evicted, how many
// frames a process may hold) lives in memory/paging.
//
// # Thread Safety
//
// A Table is not safe for concurrent use. Each simulation owns its own table
// and drives it from a single goroutine.
package frame

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/joshuapare/memsim/memory/proc"
)

// Unmapped is the page number of a frame with no owner.
const Unmapped = -1

// Frame is one slot of the table.
type Frame struct {
	Owner *proc.Handle
	Page  int
}

// Free reports whether the frame has no owner.
func (f Frame) Free() bool { return f.Owner == nil }

// Table is an owned, fixed array of N frames of PageSize units each.
type Table struct {
	frames   []Frame
	pageSize int

	// used mirrors frames[i].Owner != nil so counts and next-free scans do
	// not walk the frame array.
	used *bitset.BitSet
}

// NewTable creates a table of n free frames.
func NewTable(n, pageSize int) *Table {
	if n <= 0 {
		panic(fmt.Sprintf("frame: table needs at least one frame, got %d", n))
	}
	if pageSize <= 0 {
		panic(fmt.Sprintf("frame: page size must be positive, got %d", pageSize))
	}
	frames := make([]Frame, n)
	for i := range frames {
		frames[i].Page = Unmapped
	}
	return &Table{
		frames:   frames,
		pageSize: pageSize,
		used:     bitset.New(uint(n)),
	}
}

// Len returns N, the number of frames.
func (t *Table) Len() int { return len(t.frames) }

// PageSize returns P, the size of one frame in allocation units.
func (t *Table) PageSize() int { return t.pageSize }

// TotalUnits returns N·P.
func (t *Table) TotalUnits() int { return len(t.frames) * t.pageSize }

// PagesFor returns ceil(requirement / P).
func (t *Table) PagesFor(requirement int) int {
	return (requirement + t.pageSize - 1) / t.pageSize
}

// OccupiedCount returns the number of owned frames.
func (t *Table) OccupiedCount() int { return int(t.used.Count()) }

// FreeCount returns the number of free frames. OccupiedCount()+FreeCount()
// is always Len().
func (t *Table) FreeCount() int { return len(t.frames) - t.OccupiedCount() }

// UsagePercent returns ceil(occupied·100 / N).
func (t *Table) UsagePercent() int {
	n := len(t.frames)
	return (t.OccupiedCount()*100 + n - 1) / n
}

// Get returns a copy of frame i.
func (t *Table) Get(i int) Frame {
	t.check(i)
	return t.frames[i]
}

// Owner returns the owner of frame i, or nil.
func (t *Table) Owner(i int) *proc.Handle {
	t.check(i)
	return t.frames[i].Owner
}

// Assign gives frame i to owner as the given page. Assigning a frame that is
// already owned is a double assignment and panics.
func (t *Table) Assign(i int, owner *proc.Handle, page int) {
	t.check(i)
	if owner == nil {
		panic(fmt.Sprintf("frame: assigning frame %d to nil owner", i))
	}
	if cur := t.frames[i].Owner; cur != nil {
		panic(fmt.Sprintf("frame: frame %d already owned by %s (page %d)", i, cur, t.frames[i].Page))
	}
	if page < 0 {
		panic(fmt.Sprintf("frame: invalid page %d for frame %d", page, i))
	}
	t.frames[i] = Frame{Owner: owner, Page: page}
	t.used.Set(uint(i))
}

// Clear frees frame i and returns the frame as it was. Clearing a free frame
// panics.
func (t *Table) Clear(i int) Frame {
	t.check(i)
	prev := t.frames[i]
	if prev.Owner == nil {
		panic(fmt.Sprintf("frame: clearing free frame %d", i))
	}
	t.frames[i] = Frame{Page: Unmapped}
	t.used.Clear(uint(i))
	return prev
}

// NextFree returns the lowest free frame index >= from.
func (t *Table) NextFree(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from >= len(t.frames) {
		return 0, false
	}
	idx, ok := t.used.NextClear(uint(from))
	if !ok || int(idx) >= len(t.frames) {
		return 0, false
	}
	return int(idx), true
}

// FramesOf returns the frames owned by h in ascending order.
func (t *Table) FramesOf(h *proc.Handle) []int {
	var out []int
	for i, ok := t.used.NextSet(0); ok; i, ok = t.used.NextSet(i + 1) {
		if t.frames[i].Owner == h {
			out = append(out, int(i))
		}
	}
	return out
}

// Owners calls fn for every owned frame in ascending frame order.
func (t *Table) Owners(fn func(i int, owner *proc.Handle)) {
	for i, ok := t.used.NextSet(0); ok; i, ok = t.used.NextSet(i + 1) {
		fn(int(i), t.frames[i].Owner)
	}
}

func (t *Table) check(i int) {
	if i < 0 || i >= len(t.frames) {
		panic(fmt.Sprintf("frame: index %d out of range [0,%d)", i, len(t.frames)))
	}
}
