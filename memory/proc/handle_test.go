package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewHandle(t *testing.T) {
	h := NewHandle("P1", 40)

	assert.Equal(t, "P1", h.Name())
	assert.Equal(t, 40, h.Requirement())
	assert.Equal(t, NoAddress, h.BaseAddress())
	assert.Nil(t, h.PageTable())
	assert.False(t, h.Resident())
	assert.Zero(t, h.ResidentCount())
	assert.Nil(t, h.Frames())
	assert.Equal(t, "P1", h.String())

	assert.Panics(t, func() { NewHandle("bad", -1) })
}

func Test_SetBaseAddress_TracksResidency(t *testing.T) {
	h := NewHandle("P1", 40)

	h.SetBaseAddress(0)
	assert.True(t, h.Resident())
	assert.Equal(t, 0, h.BaseAddress())

	h.SetBaseAddress(NoAddress)
	assert.False(t, h.Resident())
}

func Test_Touch(t *testing.T) {
	h := NewHandle("P1", 4)
	h.Touch(9)
	assert.Equal(t, 9, h.LastAccess())
}

// Test_EnsurePageTable verifies the table is created once and reused.
func Test_EnsurePageTable(t *testing.T) {
	h := NewHandle("P1", 16)

	pt := h.EnsurePageTable(4)
	require.NotNil(t, pt)
	assert.Equal(t, 4, pt.Len())
	assert.Same(t, pt, h.EnsurePageTable(8))
}

func Test_Frames_Ascending(t *testing.T) {
	h := NewHandle("P1", 16)
	pt := h.EnsurePageTable(4)
	pt.Map(0, 7)
	pt.Map(2, 1)
	pt.Map(3, 4)

	assert.Equal(t, []int{7, 1, 4}, pt.Frames())
	assert.Equal(t, []int{1, 4, 7}, h.Frames())
	assert.Equal(t, 3, h.ResidentCount())
}

func Test_DropPageTable(t *testing.T) {
	h := NewHandle("P1", 8)
	pt := h.EnsurePageTable(2)
	pt.Map(0, 3)
	h.SetResident(true)

	assert.Panics(t, func() { h.DropPageTable() }, "pages still mapped")

	pt.Unmap(0)
	h.DropPageTable()
	assert.Nil(t, h.PageTable())
	assert.False(t, h.Resident())
}

func Test_PageTable_MapUnmap(t *testing.T) {
	pt := NewPageTable(3)

	pt.Map(1, 9)
	frame, ok := pt.Get(1).Frame()
	require.True(t, ok)
	assert.Equal(t, 9, frame)
	assert.Equal(t, 1, pt.MappedCount())
	assert.False(t, pt.Get(0).IsMapped())

	assert.Panics(t, func() { pt.Map(1, 2) }, "already mapped")
	assert.Panics(t, func() { pt.Unmap(0) }, "not mapped")
	assert.Panics(t, func() { pt.Get(3) }, "out of range")

	pt.Unmap(1)
	assert.Zero(t, pt.MappedCount())
}

func Test_PageTable_FirstUnmapped(t *testing.T) {
	pt := NewPageTable(4)
	pt.Map(0, 0)
	pt.Map(2, 1)

	assert.Equal(t, 1, pt.FirstUnmapped(0))
	assert.Equal(t, 3, pt.FirstUnmapped(2))
	assert.Equal(t, 1, pt.FirstUnmapped(-5))

	pt.Map(1, 2)
	pt.Map(3, 3)
	assert.Equal(t, -1, pt.FirstUnmapped(0))
}
