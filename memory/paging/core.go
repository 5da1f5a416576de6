package paging

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/joshuapare/memsim/memory/frame"
	"github.com/joshuapare/memsim/memory/proc"
)

// DefaultWorkingSetFloor is the minimum number of resident pages a process
// needs to run under the partial-residency policy.
const DefaultWorkingSetFloor = 4

// Option configures a paging allocator.
type Option func(*options)

type options struct {
	log   *zap.Logger
	floor int
}

func defaultOptions() options {
	return options{
		log:   zap.NewNop(),
		floor: DefaultWorkingSetFloor,
	}
}

// WithLogger sets the logger used for eviction and failure events.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithWorkingSetFloor overrides DefaultWorkingSetFloor. Only the virtual
// allocator uses it.
func WithWorkingSetFloor(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.floor = n
		}
	}
}

// core holds the frame bookkeeping shared by both allocators.
type core struct {
	frames *frame.Table
	policy Policy
	log    *zap.Logger

	stats Stats
}

// Stats holds allocator counters.
type Stats struct {
	Requests        int // RequestAllocation calls
	Failures        int // requests that returned ErrInsufficientFrames
	Victims         int // victim selections that reclaimed at least one frame
	FramesReclaimed int // frames taken from victims
	FramesReleased  int // frames returned by Release
}

// selectVictim returns the least recently used process other than requester
// that owns a frame. Ties on LastAccess go to the owner met first in frame
// order. Returns nil when no other process holds a frame.
func (c *core) selectVictim(requester *proc.Handle) *proc.Handle {
	var victim *proc.Handle
	c.frames.Owners(func(_ int, owner *proc.Handle) {
		if owner == requester {
			return
		}
		if victim == nil || owner.LastAccess() < victim.LastAccess() {
			victim = owner
		}
	})
	return victim
}

// reclaim takes frames from victim according to the policy and returns them
// ascending. A victim left with no frames loses its page table.
func (c *core) reclaim(victim *proc.Handle, want int, now int) []int {
	owned := c.frames.FramesOf(victim)
	take := c.policy.Choose(owned, want)
	if len(take) == 0 {
		return nil
	}
	c.unmap(victim, take)
	if victim.ResidentCount() == 0 {
		victim.DropPageTable()
	}

	c.stats.Victims++
	c.stats.FramesReclaimed += len(take)
	c.log.Debug("reclaimed frames",
		zap.String("policy", c.policy.Name()),
		zap.String("victim", victim.Name()),
		zap.Int("last_access", victim.LastAccess()),
		zap.Ints("frames", take),
		zap.Int("still_resident", victim.ResidentCount()),
		zap.Int("now", now),
	)
	return take
}

// unmap clears frames owned by h and unmaps the pages they held.
func (c *core) unmap(h *proc.Handle, frames []int) {
	pt := h.PageTable()
	if pt == nil {
		panic(fmt.Sprintf("paging: %s owns frames %v but has no page table", h, frames))
	}
	for _, i := range frames {
		f := c.frames.Clear(i)
		if f.Owner != h {
			panic(fmt.Sprintf("paging: frame %d owned by %s, expected %s", i, f.Owner, h))
		}
		if got, ok := pt.Get(f.Page).Frame(); !ok || got != i {
			panic(fmt.Sprintf("paging: %s page %d does not map to frame %d", h, f.Page, i))
		}
		pt.Unmap(f.Page)
	}
}

// mapFree hands free frames, ascending, to the lowest unmapped pages of h
// until want pages are added or no free frame is left. Returns the number of
// pages mapped.
func (c *core) mapFree(h *proc.Handle, want int) int {
	pt := h.PageTable()
	mapped, page, next := 0, 0, 0
	for mapped < want {
		i, ok := c.frames.NextFree(next)
		if !ok {
			break
		}
		page = pt.FirstUnmapped(page)
		if page < 0 {
			break
		}
		c.frames.Assign(i, h, page)
		pt.Map(page, i)
		mapped++
		next, page = i+1, page+1
	}
	if pt.MappedCount() > 0 {
		h.SetResident(true)
	}
	return mapped
}

// release clears every frame of h and drops its page table.
func (c *core) release(h *proc.Handle, now int) []int {
	frames := c.frames.FramesOf(h)
	if len(frames) > 0 {
		c.unmap(h, frames)
	}
	h.DropPageTable()

	c.stats.FramesReleased += len(frames)
	c.log.Debug("released frames",
		zap.String("process", h.Name()),
		zap.Ints("frames", frames),
		zap.Int("now", now),
	)
	return frames
}

func (c *core) fail(h *proc.Handle, evicted []int, now int, format string, args ...any) ([]int, error) {
	c.stats.Failures++
	slices.Sort(evicted)
	err := wrapInsufficient(format, args...)
	c.log.Debug("allocation failed",
		zap.String("process", h.Name()),
		zap.Ints("evicted", evicted),
		zap.Int("now", now),
		zap.Error(err),
	)
	return evicted, err
}

// Frames returns the frame table the allocator manages.
func (c *core) Frames() *frame.Table { return c.frames }

// UsagePercent returns ceil(occupied frames·100 / N).
func (c *core) UsagePercent() int { return c.frames.UsagePercent() }

// Stats returns a copy of the allocator counters.
func (c *core) Stats() Stats { return c.stats }
