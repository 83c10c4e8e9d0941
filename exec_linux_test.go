//go:build linux

package minhook

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExecutable(t *testing.T) {
	assert.True(t, isExecutable(FuncAddr(TestIsExecutable)))

	data := make([]byte, 8)
	assert.False(t, isExecutable(sliceAddr(data)))
	runtime.KeepAlive(data)

	assert.False(t, isExecutable(0))
}

func TestParseRange(t *testing.T) {
	lo, hi, ok := parseRange("55f0a000-55f0b000")
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x55f0a000), lo)
	assert.Equal(t, uintptr(0x55f0b000), hi)

	_, _, ok = parseRange("55f0a000")
	assert.False(t, ok)
	_, _, ok = parseRange("zzz-55f0b000")
	assert.False(t, ok)
}
