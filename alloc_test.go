package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorSlots(t *testing.T) {
	a := &allocator{}
	defer a.releaseAll()

	seen := make(map[uintptr]bool)
	var slots []*slot
	for i := 0; i < 10; i++ {
		s, err := a.alloc(0)
		require.NoError(t, err)
		require.NotZero(t, s.addr)
		assert.Zero(t, s.addr%slotSize)
		assert.False(t, seen[s.addr], "slot handed out twice")
		assert.False(t, s.far)
		seen[s.addr] = true
		slots = append(slots, s)
	}
	assert.Len(t, a.blocks, 1)

	for _, s := range slots {
		a.free(s)
	}
	assert.Empty(t, a.blocks, "empty block should be unmapped")
}

func TestAllocatorNear(t *testing.T) {
	a := &allocator{}
	defer a.releaseAll()

	near := FuncAddr(TestAllocatorNear)
	s, err := a.alloc(near)
	require.NoError(t, err)
	require.False(t, s.far)
	assert.True(t, within32(near, s.addr))
}

func TestAllocatorReuse(t *testing.T) {
	a := &allocator{}
	defer a.releaseAll()

	s1, err := a.alloc(0)
	require.NoError(t, err)
	s2, err := a.alloc(0)
	require.NoError(t, err)

	addr := s1.addr
	a.free(s1)
	s3, err := a.alloc(0)
	require.NoError(t, err)
	assert.Equal(t, addr, s3.addr, "freed slot should be reused first")

	a.free(s2)
	a.free(s3)
}

func TestAllocatorWritable(t *testing.T) {
	a := &allocator{}
	defer a.releaseAll()

	s, err := a.alloc(0)
	require.NoError(t, err)

	err = a.withWritable(s, func() error {
		copy(s.bytes(), []byte{1, 2, 3})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, s.bytes()[:3])
}

func TestWithin32(t *testing.T) {
	assert.True(t, within32(0x100000, 0x100000))
	assert.True(t, within32(0x100000, 0x100000+maxNearDistance))
	assert.False(t, within32(0x100000, 0x100000+maxNearDistance+1))
	assert.True(t, within32(0x80000000, 0x80000000-maxNearDistance))
	assert.False(t, within32(0x80000000+maxNearDistance+1, 0x80000000))
}
