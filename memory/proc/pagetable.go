package proc

import "fmt"

// Entry is one page-table slot. The zero value is an unmapped page.
type Entry struct {
	frame  int
	mapped bool
}

// Mapped returns an entry pointing at frame.
func Mapped(frame int) Entry {
	return Entry{frame: frame, mapped: true}
}

// Frame returns the frame backing the page and whether the page is mapped.
func (e Entry) Frame() (int, bool) {
	return e.frame, e.mapped
}

// IsMapped reports whether the page is backed by a frame.
func (e Entry) IsMapped() bool { return e.mapped }

// PageTable maps logical page indices to frames. It is sized to the number of
// pages the owning process needs and never grows.
type PageTable struct {
	entries []Entry
	mapped  int
}

// NewPageTable returns a table of n unmapped pages.
func NewPageTable(n int) *PageTable {
	if n < 0 {
		panic(fmt.Sprintf("proc: negative page table size %d", n))
	}
	return &PageTable{entries: make([]Entry, n)}
}

// Len returns the number of pages in the table.
func (pt *PageTable) Len() int { return len(pt.entries) }

// MappedCount returns the number of mapped pages.
func (pt *PageTable) MappedCount() int { return pt.mapped }

// Get returns the entry for page.
func (pt *PageTable) Get(page int) Entry {
	pt.check(page)
	return pt.entries[page]
}

// Map points page at frame. Mapping an already mapped page is a bookkeeping
// bug and panics.
func (pt *PageTable) Map(page, frame int) {
	pt.check(page)
	if pt.entries[page].mapped {
		panic(fmt.Sprintf("proc: page %d already mapped to frame %d", page, pt.entries[page].frame))
	}
	pt.entries[page] = Mapped(frame)
	pt.mapped++
}

// Unmap clears page. Unmapping a page that is not mapped panics.
func (pt *PageTable) Unmap(page int) {
	pt.check(page)
	if !pt.entries[page].mapped {
		panic(fmt.Sprintf("proc: page %d is not mapped", page))
	}
	pt.entries[page] = Entry{}
	pt.mapped--
}

// FirstUnmapped returns the lowest unmapped page index at or after from, or -1.
func (pt *PageTable) FirstUnmapped(from int) int {
	for i := max(from, 0); i < len(pt.entries); i++ {
		if !pt.entries[i].mapped {
			return i
		}
	}
	return -1
}

// Frames returns the mapped frames in page order.
func (pt *PageTable) Frames() []int {
	out := make([]int, 0, pt.mapped)
	for _, e := range pt.entries {
		if e.mapped {
			out = append(out, e.frame)
		}
	}
	return out
}

func (pt *PageTable) check(page int) {
	if page < 0 || page >= len(pt.entries) {
		panic(fmt.Sprintf("proc: page index %d out of range [0,%d)", page, len(pt.entries)))
	}
}
