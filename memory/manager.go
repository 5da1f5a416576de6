package memory

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/freelist"
	"github.com/joshuapare/memsim/memory/paging"
	"github.com/joshuapare/memsim/memory/proc"
)

// Manager is the contract between the dispatcher and an allocator.
//
// Implementations:
//   - Unbounded: infinite memory, no accounting
//   - Contiguous: first-fit free list
//   - paging.PagedAllocator: whole-process frame allocation
//   - paging.VirtualAllocator: partial-residency frame allocation
type Manager interface {
	// RequestAllocation makes h runnable. It returns the frames evicted from
	// other processes as a side effect, ascending, and a recoverable error
	// (ErrNoSpace or ErrInsufficientFrames) when h cannot run yet.
	RequestAllocation(h *proc.Handle, now int) ([]int, error)

	// Release frees everything h holds and returns the frames cleared,
	// ascending. Contiguous and unbounded managers return nil.
	Release(h *proc.Handle, now int) []int

	// UsagePercent returns ceil(occupied units·100 / total units).
	UsagePercent() int

	// Admissible reports whether a process with the given requirement could
	// ever be made runnable on an otherwise empty memory.
	Admissible(requirement int) bool
}

var (
	_ Manager = (*Unbounded)(nil)
	_ Manager = (*Contiguous)(nil)
	_ Manager = (*paging.PagedAllocator)(nil)
	_ Manager = (*paging.VirtualAllocator)(nil)
)

// Options describes the memory geometry.
type Options struct {
	// MemorySize is the total number of units. Default: 2048
	MemorySize int

	// PageSize is the frame size for paged strategies. Default: 4
	PageSize int

	// WorkingSetFloor is the minimum resident pages for Virtual. Default: 4
	WorkingSetFloor int

	// Logger receives allocator debug events. Default: no-op
	Logger *zap.Logger
}

const (
	DefaultMemorySize = 2048
	DefaultPageSize   = 4
)

func (o *Options) withDefaults() {
	if o.MemorySize == 0 {
		o.MemorySize = DefaultMemorySize
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.WorkingSetFloor == 0 {
		o.WorkingSetFloor = paging.DefaultWorkingSetFloor
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// New builds the manager for a strategy. Each call returns independent state,
// so managers from separate calls can be driven concurrently.
func New(s Strategy, opts Options) (Manager, error) {
	opts.withDefaults()
	if opts.MemorySize < 0 || opts.PageSize < 0 || opts.WorkingSetFloor < 0 {
		return nil, errors.Wrapf(ErrBadOptions, "negative geometry %+v", opts)
	}

	log := opts.Logger.With(zap.Stringer("strategy", s))

	switch s {
	case Infinite:
		return &Unbounded{}, nil
	case FirstFit:
		return NewContiguous(opts.MemorySize, log), nil
	case Paged, Virtual:
		if opts.MemorySize%opts.PageSize != 0 {
			return nil, errors.Wrapf(ErrBadOptions,
				"memory size %d is not a multiple of page size %d", opts.MemorySize, opts.PageSize)
		}
		table := frame.NewTable(opts.MemorySize/opts.PageSize, opts.PageSize)
		if s == Paged {
			return paging.NewPaged(table, paging.WithLogger(log)), nil
		}
		return paging.NewVirtual(table,
			paging.WithLogger(log),
			paging.WithWorkingSetFloor(opts.WorkingSetFloor),
		), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%d", uint8(s))
	}
}

// Unbounded is the manager for the infinite strategy.
type Unbounded struct{}

func (*Unbounded) RequestAllocation(h *proc.Handle, _ int) ([]int, error) {
	h.SetResident(true)
	return nil, nil
}

func (*Unbounded) Release(h *proc.Handle, _ int) []int {
	h.SetResident(false)
	return nil
}

func (*Unbounded) UsagePercent() int { return 0 }

func (*Unbounded) Admissible(int) bool { return true }

// Contiguous adapts a freelist.Allocator to Manager. The carved address is
// stored in the handle's BaseAddress.
type Contiguous struct {
	fl  *freelist.Allocator
	log *zap.Logger
}

// NewContiguous returns a first-fit manager over total units.
func NewContiguous(total int, log *zap.Logger) *Contiguous {
	if log == nil {
		log = zap.NewNop()
	}
	return &Contiguous{fl: freelist.New(total), log: log}
}

// FreeList exposes the underlying allocator.
func (c *Contiguous) FreeList() *freelist.Allocator { return c.fl }

// RequestAllocation carves h's requirement from the first hole that fits. A
// handle that already holds an address is left untouched.
func (c *Contiguous) RequestAllocation(h *proc.Handle, now int) ([]int, error) {
	if h.BaseAddress() != proc.NoAddress {
		return nil, nil
	}
	addr, err := c.fl.Allocate(h.Requirement())
	if err != nil {
		c.log.Debug("allocation failed",
			zap.String("process", h.Name()),
			zap.Int("requirement", h.Requirement()),
			zap.Int("holes", c.fl.HoleCount()),
			zap.Int("now", now),
			zap.Error(err),
		)
		return nil, errors.WithMessagef(err, "process %s", h.Name())
	}
	h.SetBaseAddress(addr)
	c.log.Debug("allocated",
		zap.String("process", h.Name()),
		zap.Int("address", addr),
		zap.Int("size", h.Requirement()),
		zap.Int("now", now),
	)
	return nil, nil
}

// Release returns h's range to the free list.
func (c *Contiguous) Release(h *proc.Handle, now int) []int {
	addr := h.BaseAddress()
	if addr == proc.NoAddress {
		return nil
	}
	c.fl.Deallocate(addr, h.Requirement())
	h.SetBaseAddress(proc.NoAddress)
	c.log.Debug("deallocated",
		zap.String("process", h.Name()),
		zap.Int("address", addr),
		zap.Int("size", h.Requirement()),
		zap.Int("holes", c.fl.HoleCount()),
		zap.Int("now", now),
	)
	return nil
}

func (c *Contiguous) UsagePercent() int { return c.fl.UsagePercent() }

func (c *Contiguous) Admissible(requirement int) bool {
	return requirement > 0 && requirement <= c.fl.Total()
}
