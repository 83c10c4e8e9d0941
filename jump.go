package minhook

import "encoding/binary"

// x86 control-transfer encodings used for patches and trampolines.
const (
	opJmpRel32  = 0xE9 // JMP rel32
	opCallRel32 = 0xE8 // CALL rel32
	opJccRel32  = 0x0F // 0F 8x: Jcc rel32
	opInt3      = 0xCC

	jmpRel32Len = 5
	absJmpLen   = 14 // FF 25 00000000 + 8-byte address
	relayLen    = 13 // MOVABS R11, imm64; JMP R11
)

// putJmpRel32 writes JMP rel32 at buf[0:5], where src is the address the
// bytes will execute from.
func putJmpRel32(buf []byte, src, dst uintptr) {
	buf[0] = opJmpRel32
	binary.LittleEndian.PutUint32(buf[1:], uint32(int32(int64(dst)-int64(src+jmpRel32Len))))
}

func jmpRel32(src, dst uintptr) []byte {
	buf := make([]byte, jmpRel32Len)
	putJmpRel32(buf, src, dst)
	return buf
}

// absJmp64 encodes JMP QWORD PTR [RIP+0] followed by the destination, a
// position-independent absolute jump. Only meaningful in 64-bit mode.
func absJmp64(dst uintptr) []byte {
	buf := make([]byte, absJmpLen)
	buf[0] = 0xFF
	buf[1] = 0x25
	binary.LittleEndian.PutUint32(buf[2:], 0)
	binary.LittleEndian.PutUint64(buf[6:], uint64(dst))
	return buf
}

// relay64 encodes MOVABS R11, dst; JMP R11. R11 is caller-saved in every
// calling convention we patch under, so clobbering it at a function entry is
// safe.
func relay64(dst uintptr) []byte {
	buf := make([]byte, relayLen)
	buf[0] = 0x49
	buf[1] = 0xBB
	binary.LittleEndian.PutUint64(buf[2:], uint64(dst))
	buf[10] = 0x41
	buf[11] = 0xFF
	buf[12] = 0xE3
	return buf
}
