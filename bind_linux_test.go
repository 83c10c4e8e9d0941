//go:build linux

package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSymbolSelf(t *testing.T) {
	addr, err := resolveSymbol("", "github.com/anowalinski/minhook.FuncAddr")
	require.NoError(t, err)
	assert.Equal(t, FuncAddr(FuncAddr), addr)
}

func TestResolveSymbolErrors(t *testing.T) {
	_, err := resolveSymbol("", "no.such.symbol")
	assert.ErrorIs(t, err, StatusFunctionNotFound)

	_, err = resolveSymbol("libnope-does-not-exist.so", "anything")
	assert.ErrorIs(t, err, StatusModuleNotFound)
}

func TestFindModuleSelf(t *testing.T) {
	path, base, err := findModule("")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.NotZero(t, base)
}
