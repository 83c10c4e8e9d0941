package minhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		mode int
		kind instKind
		len  int
		rel  int64
	}{
		{"push rbp", []byte{0x55}, 64, kindPlain, 1, 0},
		{"mov rbp rsp", []byte{0x48, 0x89, 0xE5}, 64, kindPlain, 3, 0},
		{"sub rsp imm8", []byte{0x48, 0x83, 0xEC, 0x18}, 64, kindPlain, 4, 0},
		{"ret", []byte{0xC3}, 64, kindRet, 1, 0},
		{"ret imm16", []byte{0xC2, 0x08, 0x00}, 64, kindRet, 3, 0},
		{"call rel32", []byte{0xE8, 0x10, 0x00, 0x00, 0x00}, 64, kindCall, 5, 0x10},
		{"jmp rel8", []byte{0xEB, 0x20}, 64, kindJump, 2, 0x20},
		{"jmp rel8 backward", []byte{0xEB, 0xFE}, 64, kindJump, 2, -2},
		{"jmp rel32", []byte{0xE9, 0x00, 0x01, 0x00, 0x00}, 64, kindJump, 5, 0x100},
		{"je rel8", []byte{0x74, 0x05}, 64, kindCondJump, 2, 5},
		{"jne rel32", []byte{0x0F, 0x85, 0x80, 0x00, 0x00, 0x00}, 64, kindCondJump, 6, 0x80},
		{"mov eax rip-relative", []byte{0x8B, 0x05, 0x44, 0x33, 0x22, 0x11}, 64, kindRIPRel, 6, 0x11223344},
		{"lea rax rip-relative", []byte{0x48, 0x8D, 0x05, 0x10, 0x00, 0x00, 0x00}, 64, kindRIPRel, 7, 0x10},
		{"inc eax in 32-bit mode", []byte{0x40}, 32, kindPlain, 1, 0},
		{"mov eax disp32 in 32-bit mode", []byte{0x8B, 0x05, 0x44, 0x33, 0x22, 0x11}, 32, kindPlain, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := decode(tt.code, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, inst.kind)
			assert.Equal(t, tt.len, inst.len)
			if tt.kind == kindJump || tt.kind == kindCondJump || tt.kind == kindCall || tt.kind == kindRIPRel {
				assert.Equal(t, tt.rel, inst.rel)
			}
		})
	}
}

func TestDecodeRel8Only(t *testing.T) {
	inst, err := decode([]byte{0xE3, 0x05}, 64)
	require.NoError(t, err)
	assert.Equal(t, kindCondJump, inst.kind)
	assert.True(t, rel8Only(inst.op))
	assert.False(t, rel8Only(x86asm.JE))
	assert.True(t, rel8Only(x86asm.LOOP))
}

func TestDecodeErrors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := decode([]byte{0xE9, 0x00}, 64)
		assert.Error(t, err)
	})

	t.Run("prefix only", func(t *testing.T) {
		_, err := decode([]byte{0xF0}, 64)
		assert.Error(t, err)
	})

	t.Run("rip-relative with immediate", func(t *testing.T) {
		// MOV DWORD PTR [RIP+0], 1: the immediate sits after the disp32,
		// which the relocator cannot rewrite in place.
		_, err := decode([]byte{0xC7, 0x05, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}, 64)
		assert.Error(t, err)
	})
}
