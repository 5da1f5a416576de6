package memory

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/memsim/memory/paging"
	"github.com/joshuapare/memsim/memory/proc"
)

func Test_New_EachStrategy(t *testing.T) {
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			mgr, err := New(s, Options{})
			require.NoError(t, err)
			require.NotNil(t, mgr)
			assert.Zero(t, mgr.UsagePercent())
		})
	}

	mgr, err := New(Paged, Options{})
	require.NoError(t, err)
	paged, ok := mgr.(*paging.PagedAllocator)
	require.True(t, ok)
	assert.Equal(t, 512, paged.Frames().Len())
	assert.Equal(t, DefaultPageSize, paged.Frames().PageSize())
}

func Test_New_BadOptions(t *testing.T) {
	_, err := New(Paged, Options{MemorySize: 10, PageSize: 4})
	assert.ErrorIs(t, err, ErrBadOptions)

	_, err = New(FirstFit, Options{MemorySize: -1})
	assert.ErrorIs(t, err, ErrBadOptions)

	_, err = New(Strategy(42), Options{})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func Test_New_WorkingSetFloor(t *testing.T) {
	mgr, err := New(Virtual, Options{MemorySize: 64, PageSize: 4, WorkingSetFloor: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, mgr.(*paging.VirtualAllocator).Floor())
}

func Test_Unbounded(t *testing.T) {
	mgr, err := New(Infinite, Options{})
	require.NoError(t, err)

	h := proc.NewHandle("A", 1<<20)
	evicted, err := mgr.RequestAllocation(h, 0)
	require.NoError(t, err)
	assert.Nil(t, evicted)
	assert.True(t, h.Resident())
	assert.True(t, mgr.Admissible(1<<30))

	assert.Nil(t, mgr.Release(h, 1))
	assert.False(t, h.Resident())
	assert.Zero(t, mgr.UsagePercent())
}

// Test_Contiguous_FirstFitAndCoalesce walks the contiguous manager through a
// fragmentation cycle.
func Test_Contiguous_FirstFitAndCoalesce(t *testing.T) {
	c := NewContiguous(100, nil)

	procA := proc.NewHandle("A", 30)
	procB := proc.NewHandle("B", 30)
	procC := proc.NewHandle("C", 40)
	for _, h := range []*proc.Handle{procA, procB, procC} {
		_, err := c.RequestAllocation(h, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, procA.BaseAddress())
	assert.Equal(t, 30, procB.BaseAddress())
	assert.Equal(t, 60, procC.BaseAddress())
	assert.Equal(t, 100, c.UsagePercent())

	procD := proc.NewHandle("D", 10)
	_, err := c.RequestAllocation(procD, 1)
	require.Error(t, err)
	assert.True(t, Recoverable(err))
	assert.ErrorIs(t, err, ErrNoSpace)
	assert.Contains(t, err.Error(), "process D")
	assert.Equal(t, proc.NoAddress, procD.BaseAddress())

	assert.Nil(t, c.Release(procA, 2))
	assert.Equal(t, proc.NoAddress, procA.BaseAddress())
	assert.False(t, procA.Resident())
	c.Release(procB, 2)
	assert.Equal(t, 1, c.FreeList().HoleCount())
	assert.Equal(t, 40, c.UsagePercent())

	_, err = c.RequestAllocation(procD, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, procD.BaseAddress())
	assert.Equal(t, 50, c.UsagePercent())
}

func Test_Contiguous_HeldAddressIsKept(t *testing.T) {
	c := NewContiguous(64, nil)
	h := proc.NewHandle("A", 16)

	_, err := c.RequestAllocation(h, 0)
	require.NoError(t, err)
	_, err = c.RequestAllocation(h, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, h.BaseAddress())
	assert.Equal(t, 25, c.UsagePercent())
	assert.True(t, c.Admissible(64))
	assert.False(t, c.Admissible(65))
	assert.False(t, c.Admissible(0))
}

func Test_Contiguous_LogsAllocations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mgr, err := New(FirstFit, Options{MemorySize: 32, Logger: zap.New(core)})
	require.NoError(t, err)

	h := proc.NewHandle("A", 8)
	_, err = mgr.RequestAllocation(h, 0)
	require.NoError(t, err)
	mgr.Release(h, 1)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "allocated", entries[0].Message)
	assert.Equal(t, "deallocated", entries[1].Message)
	assert.Equal(t, "first-fit", entries[0].ContextMap()["strategy"])
}

func Test_Recoverable(t *testing.T) {
	assert.True(t, Recoverable(errors.Wrap(ErrNoSpace, "x")))
	assert.True(t, Recoverable(errors.WithMessage(ErrInsufficientFrames, "y")))
	assert.False(t, Recoverable(ErrBadOptions))
	assert.False(t, Recoverable(nil))
}
