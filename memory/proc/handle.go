// Package proc holds the per-process memory state that the allocators in
// memory/freelist and memory/paging read and mutate.
//
// A Handle is owned by its process. Allocators only reference it while the
// process is resident and never keep it alive after Release.
package proc

import (
	"fmt"
	"slices"
)

// NoAddress marks a handle that holds no contiguous allocation.
const NoAddress = -1

// Handle is the memory state of one simulated process.
type Handle struct {
	name        string
	requirement int

	// start of the contiguous allocation, or NoAddress
	baseAddress int

	pageTable  *PageTable
	lastAccess int
	resident   bool
}

// NewHandle creates the state for a process at admission: nothing allocated,
// nothing mapped.
func NewHandle(name string, requirement int) *Handle {
	if requirement < 0 {
		panic(fmt.Sprintf("proc: negative memory requirement %d for %q", requirement, name))
	}
	return &Handle{
		name:        name,
		requirement: requirement,
		baseAddress: NoAddress,
	}
}

// Name returns the process name.
func (h *Handle) Name() string { return h.name }

// Requirement returns the memory requirement in allocation units.
func (h *Handle) Requirement() int { return h.requirement }

// BaseAddress returns the contiguous base address, or NoAddress.
func (h *Handle) BaseAddress() int { return h.baseAddress }

// SetBaseAddress records a contiguous allocation. Use NoAddress to clear it.
func (h *Handle) SetBaseAddress(addr int) {
	h.baseAddress = addr
	h.resident = addr != NoAddress
}

// LastAccess returns the simulated time of the last dispatch.
func (h *Handle) LastAccess() int { return h.lastAccess }

// Touch stamps the access time. The dispatcher calls it every time the
// process runs; LRU victim selection depends on nothing else.
func (h *Handle) Touch(now int) { h.lastAccess = now }

// Resident reports whether the process currently holds memory.
func (h *Handle) Resident() bool { return h.resident }

// SetResident updates the residency flag.
func (h *Handle) SetResident(v bool) { h.resident = v }

// PageTable returns the page table, or nil if none has been created.
func (h *Handle) PageTable() *PageTable { return h.pageTable }

// EnsurePageTable creates an all-unmapped page table of n pages if the handle
// has none yet and returns it.
func (h *Handle) EnsurePageTable(n int) *PageTable {
	if h.pageTable == nil {
		h.pageTable = NewPageTable(n)
	}
	return h.pageTable
}

// DropPageTable releases the page table. All pages must already be unmapped.
func (h *Handle) DropPageTable() {
	if h.pageTable != nil && h.pageTable.MappedCount() != 0 {
		panic(fmt.Sprintf("proc: dropping page table of %q with %d mapped pages",
			h.name, h.pageTable.MappedCount()))
	}
	h.pageTable = nil
	h.resident = false
}

// ResidentCount returns the number of frames currently mapped.
func (h *Handle) ResidentCount() int {
	if h.pageTable == nil {
		return 0
	}
	return h.pageTable.MappedCount()
}

// Frames returns the frames held by the process in ascending order.
func (h *Handle) Frames() []int {
	if h.pageTable == nil {
		return nil
	}
	frames := h.pageTable.Frames()
	slices.Sort(frames)
	return frames
}

func (h *Handle) String() string {
	return h.name
}
