// Package paging implements frame-based allocation with least-recently-used
// eviction on top of a shared frame.Table.
//
// # Allocators
//
// PagedAllocator: whole-process residency
//
//   - pagesNeeded = ceil(requirement / pageSize)
//   - while free frames < pagesNeeded, evict the LRU process entirely
//   - succeeds only when every page is mapped
//
// VirtualAllocator: partial residency
//
//   - minRequired = min(pagesNeeded, floor), floor defaults to 4
//   - while free frames < pagesToAdd and free frames < floor, reclaim from the
//     LRU process only the frames still missing to reach minRequired
//   - maps as many missing pages as there are free frames
//   - succeeds when at least minRequired pages are resident
//
// # Victim Selection
//
// The victim is the process, other than the requester, that owns at least one
// frame and has the smallest LastAccess. Ties go to the process met first when
// scanning frames in index order. This is deterministic, not fair.
//
// When frames are still short and no victim exists, both allocators fail with
// ErrInsufficientFrames instead of proceeding.
//
// # Eviction Records
//
// RequestAllocation and Release return the frames they cleared in ascending
// index order, ready for the "evicted-frames=[...]" trace line.
//
// # Usage Example
//
//	table := frame.NewTable(512, 4)
//	pa := paging.NewPaged(table, paging.WithLogger(log))
//
//	h := proc.NewHandle("P1", 40)
//	h.Touch(now)
//	evicted, err := pa.RequestAllocation(h, now)
//	if errors.Is(err, paging.ErrInsufficientFrames) {
//	    // requeue
//	}
//
//	freed := pa.Release(h, now)
//
// # Thread Safety
//
// Allocators are not thread-safe. One dispatcher drives them, one call at a
// time.
package paging
