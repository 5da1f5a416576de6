package freelist

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/pkg/errors"
)

// Hole is a free range [Start, Start+Size).
type Hole struct {
	Start int
	Size  int
}

// End returns the first address after the hole.
func (h Hole) End() int { return h.Start + h.Size }

func (h Hole) String() string {
	return fmt.Sprintf("[%d,%d)", h.Start, h.End())
}

// Allocator is a first-fit allocator over one address space of Total() units.
//
// Holes live in a red-black tree keyed by start address, which gives ordered
// iteration for first-fit and O(log n) predecessor/successor lookup for
// coalescing.
type Allocator struct {
	total int

	// holes: start (int) -> size (int)
	holes *treemap.Map
	free  int

	stats Stats
}

// Stats holds allocator counters for tests and instrumentation.
type Stats struct {
	AllocCalls    int // Total Allocate() calls
	AllocFailures int // Allocate() calls that returned ErrNoSpace
	FreeCalls     int // Total Deallocate() calls
	Merges        int // Pairs of holes merged during coalescing
	HolesRemoved  int // Holes consumed exactly by an allocation
}

// New returns an allocator whose whole address space [0,total) is one hole.
func New(total int) *Allocator {
	if total <= 0 {
		panic(fmt.Sprintf("freelist: total must be positive, got %d", total))
	}
	a := &Allocator{
		total: total,
		holes: treemap.NewWithIntComparator(),
		free:  total,
	}
	a.holes.Put(0, total)
	return a
}

// Allocate reserves size units using first-fit and returns the start address.
// It returns ErrNoSpace when no hole is large enough.
func (a *Allocator) Allocate(size int) (int, error) {
	a.stats.AllocCalls++

	if size <= 0 {
		return 0, errors.Wrapf(ErrBadSize, "allocate %d", size)
	}

	start, holeSize, found := -1, 0, false
	it := a.holes.Iterator()
	for it.Next() {
		if s := it.Value().(int); s >= size {
			start, holeSize, found = it.Key().(int), s, true
			break
		}
	}
	if !found {
		a.stats.AllocFailures++
		return 0, errors.Wrapf(ErrNoSpace, "allocate %d (largest hole %d)", size, a.LargestHole().Size)
	}

	// Carve from the low end. The remainder still sorts before the successor,
	// so re-keying keeps the order intact.
	a.holes.Remove(start)
	if rest := holeSize - size; rest > 0 {
		a.holes.Put(start+size, rest)
	} else {
		a.stats.HolesRemoved++
	}
	a.free -= size

	return start, nil
}

// Deallocate returns [addr, addr+size) to the free list and coalesces it with
// adjacent holes. Freeing a range that overlaps a hole, or that lies outside
// the address space, means the caller's bookkeeping is already broken and
// panics.
func (a *Allocator) Deallocate(addr, size int) {
	a.stats.FreeCalls++

	if size <= 0 || addr < 0 || addr+size > a.total {
		panic(fmt.Sprintf("freelist: deallocate [%d,%d) outside [0,%d)", addr, addr+size, a.total))
	}

	fresh := Hole{Start: addr, Size: size}
	prev, hasPrev := a.floor(addr)
	if hasPrev && prev.End() > addr {
		panic(fmt.Sprintf("freelist: deallocate %v overlaps hole %v", fresh, prev))
	}
	if next, ok := a.ceiling(addr); ok && next.Start < fresh.End() {
		panic(fmt.Sprintf("freelist: deallocate %v overlaps hole %v", fresh, next))
	}

	a.holes.Put(addr, size)
	a.free += size

	start := addr
	if hasPrev {
		start = prev.Start
	}
	a.coalesce(start, addr)
}

// coalesce walks forward from the hole at start, merging adjacent pairs, and
// stops at the first gap past pivot (the start of the hole just inserted).
func (a *Allocator) coalesce(start, pivot int) {
	cur, _ := a.get(start)
	for {
		next, ok := a.ceiling(cur.Start + 1)
		if !ok {
			return
		}
		if cur.End() != next.Start {
			if next.Start > pivot {
				return
			}
			cur = next
			continue
		}
		cur.Size += next.Size
		a.holes.Remove(next.Start)
		a.holes.Put(cur.Start, cur.Size)
		a.stats.Merges++
	}
}

// Holes returns the free list in ascending address order.
func (a *Allocator) Holes() []Hole {
	out := make([]Hole, 0, a.holes.Size())
	it := a.holes.Iterator()
	for it.Next() {
		out = append(out, Hole{Start: it.Key().(int), Size: it.Value().(int)})
	}
	return out
}

// HoleCount returns the number of holes.
func (a *Allocator) HoleCount() int { return a.holes.Size() }

// LargestHole returns the largest hole, lowest address first on ties. The
// zero Hole is returned when memory is full.
func (a *Allocator) LargestHole() Hole {
	var best Hole
	it := a.holes.Iterator()
	for it.Next() {
		if s := it.Value().(int); s > best.Size {
			best = Hole{Start: it.Key().(int), Size: s}
		}
	}
	return best
}

// Total returns the size of the address space.
func (a *Allocator) Total() int { return a.total }

// FreeBytes returns the sum of all hole sizes.
func (a *Allocator) FreeBytes() int { return a.free }

// UsedBytes returns the sum of all allocated ranges.
func (a *Allocator) UsedBytes() int { return a.total - a.free }

// UsagePercent returns ceil(used·100 / total).
func (a *Allocator) UsagePercent() int {
	return (a.UsedBytes()*100 + a.total - 1) / a.total
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

func (a *Allocator) get(start int) (Hole, bool) {
	v, ok := a.holes.Get(start)
	if !ok {
		return Hole{}, false
	}
	return Hole{Start: start, Size: v.(int)}, true
}

// floor returns the hole with the greatest start <= addr.
func (a *Allocator) floor(addr int) (Hole, bool) {
	k, v := a.holes.Floor(addr)
	if k == nil {
		return Hole{}, false
	}
	return Hole{Start: k.(int), Size: v.(int)}, true
}

// ceiling returns the hole with the smallest start >= addr.
func (a *Allocator) ceiling(addr int) (Hole, bool) {
	k, v := a.holes.Ceiling(addr)
	if k == nil {
		return Hole{}, false
	}
	return Hole{Start: k.(int), Size: v.(int)}, true
}
