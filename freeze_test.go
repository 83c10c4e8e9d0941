package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirect(t *testing.T) {
	regions := []patchRegion{
		{
			start:  0x1000,
			length: 5,
			moves: []ipMove{
				{from: 0x1000, to: 0x2000},
				{from: 0x1003, to: 0x2007},
			},
		},
		{
			start:  0x3000,
			length: 14,
			moves:  []ipMove{{from: 0x3000, to: 0x4000}},
		},
	}

	assert.Equal(t, uintptr(0x2000), redirect(0x1000, regions))
	assert.Equal(t, uintptr(0x2007), redirect(0x1003, regions))
	assert.Equal(t, uintptr(0x4000), redirect(0x3000, regions))

	// Addresses outside every region pass through untouched, as do
	// non-boundary addresses inside one.
	assert.Equal(t, uintptr(0x0FFF), redirect(0x0FFF, regions))
	assert.Equal(t, uintptr(0x1005), redirect(0x1005, regions))
	assert.Equal(t, uintptr(0x1001), redirect(0x1001, regions))
}

func TestFreezeThaw(t *testing.T) {
	fr, err := freezeThreads(nil)
	require.NoError(t, err)
	fr.thaw()

	// The cycle must be repeatable: ApplyQueued and EnableAll each run their
	// own freeze.
	fr, err = freezeThreads(nil)
	require.NoError(t, err)
	fr.thaw()
}
