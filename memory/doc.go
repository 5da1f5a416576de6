// Package memory is the entry point to the allocation engine of a simulated
// multi-process runtime.
//
// # Overview
//
// A dispatcher asks a Manager to make a process runnable before each run and
// to release it when the process completes. The Manager decides where the
// process's memory lives and, for paged strategies, which other process
// loses residency when frames run out.
//
// # Strategies
//
//	infinite   Unbounded            no accounting, always succeeds
//	first-fit  Contiguous           first-fit free list with coalescing
//	paged      PagedAllocator       whole-process LRU eviction
//	virtual    VirtualAllocator     partial-residency LRU eviction
//
// # Usage Example
//
//	mgr, err := memory.New(memory.Virtual, memory.Options{MemorySize: 2048, PageSize: 4})
//	if err != nil {
//	    return err
//	}
//
//	h := proc.NewHandle("P4", 40)
//	h.Touch(now)
//	evicted, err := mgr.RequestAllocation(h, now)
//	switch {
//	case memory.Recoverable(err):
//	    // requeue and retry on a later tick
//	case err != nil:
//	    return err
//	}
//	_ = evicted // log "evicted-frames=[...]"
//
//	freed := mgr.Release(h, now)
//
// # Related Packages
//
//   - github.com/joshuapare/memsim/memory/freelist: contiguous allocator
//   - github.com/joshuapare/memsim/memory/frame: shared frame table
//   - github.com/joshuapare/memsim/memory/paging: paged and virtual allocators
//   - github.com/joshuapare/memsim/memory/proc: per-process memory state
package memory
