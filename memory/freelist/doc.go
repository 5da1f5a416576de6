// Package freelist provides contiguous, variable-partition allocation over a
// single address space.
//
// # Overview
//
// Free space is tracked as a set of holes ordered by start address. A hole is
// a maximal free range [Start, Start+Size): no two holes overlap and no two
// consecutive holes touch. Every Deallocate restores that shape by merging the
// freed range with its neighbours.
//
// # Allocation
//
// Allocate is first-fit: holes are scanned in ascending address order and the
// first one with Size >= need wins, even when a tighter hole exists further
// up. The allocation is carved from the low end of the hole:
//
//	addr := hole.Start
//	hole.Start += need
//	hole.Size -= need
//
// A hole that shrinks to zero is removed.
//
// # Deallocation
//
// Deallocate inserts the freed range at its ordered position and then merges
// locally, starting from the predecessor of the new hole and walking forward
// while the current hole ends exactly where the next one starts. Only the
// neighbourhood of the new hole is visited.
//
// # Accounting
//
// At every observable point:
//
//	FreeBytes() + UsedBytes() == Total()
//
// # Usage Example
//
//	fl := freelist.New(2048)
//	addr, err := fl.Allocate(200)
//	if errors.Is(err, freelist.ErrNoSpace) {
//	    // requeue and retry later
//	}
//	fl.Deallocate(addr, 200)
//
// # Thread Safety
//
// An Allocator is not safe for concurrent use. Each simulation owns one.
package freelist
