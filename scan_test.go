package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prologue(code ...byte) []byte {
	out := make([]byte, MaxPrologue)
	for i := range out {
		out[i] = 0x90
	}
	copy(out, code)
	return out
}

func TestPatchLength(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want int
	}{
		{"nops only", prologue(), 5},
		{"frame setup", prologue(0x55, 0x48, 0x89, 0xE5), 5},
		{"long first instruction", prologue(0x48, 0x81, 0xEC, 0x80, 0x00, 0x00, 0x00), 7},
		{"call covers the patch", prologue(0xE8, 0x10, 0x00, 0x00, 0x00), 5},
		{"conditional jump out of region", prologue(0x74, 0x10), 5},
		{"terminal jmp rel32", prologue(0xE9, 0x00, 0x01, 0x00, 0x00), 5},
		{"rip-relative load", prologue(0x48, 0x8B, 0x05, 0x10, 0x00, 0x00, 0x00), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := PatchLength(tt.code, 64)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestPatchLengthUnsupported(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{"immediate ret", prologue(0xC3)},
		{"ret after one byte", prologue(0x55, 0xC3)},
		{"jrcxz has no rel32 form", prologue(0xE3, 0x05)},
		{"branch into the patched region", prologue(0xEB, 0x01)},
		{"branch to function start", prologue(0x74, 0xFE)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PatchLength(tt.code, 64)
			assert.ErrorIs(t, err, StatusUnsupportedFunction)
		})
	}
}
