package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func triple(x int) int {
	return 3 * x
}

func TestFuncAddr(t *testing.T) {
	addr := FuncAddr(triple)
	require.NotZero(t, addr)
	assert.Equal(t, addr, FuncAddr(triple))

	assert.Panics(t, func() { FuncAddr(42) })
	assert.Panics(t, func() { FuncAddr(nil) })
	assert.Panics(t, func() { FuncAddr("triple") })
}

func TestAsFunc(t *testing.T) {
	f := AsFunc[func(int) int](FuncAddr(triple))
	assert.Equal(t, 12, f(4))
	assert.Equal(t, triple(7), f(7))
}
