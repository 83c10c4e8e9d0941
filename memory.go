package minhook

import (
	"math"
	"unsafe"
)

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// archMode is the x86 decode mode for this build: 32 or 64.
const archMode = ptrSize * 8

// codeAt aliases raw process memory as a byte slice. The caller is
// responsible for the region being mapped.
func codeAt(addr uintptr, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

func sliceAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// fitsInt32 reports whether a displacement computed between two addresses can
// be encoded as a signed 32-bit operand.
func fitsInt32(disp int64) bool {
	return disp >= math.MinInt32 && disp <= math.MaxInt32
}

// within32 reports whether addr can be reached from base by a rel32 jump.
// The margin mirrors the block size so that every slot inside a block placed
// by the allocator stays reachable.
func within32(base, addr uintptr) bool {
	if addr >= base {
		return addr-base <= maxNearDistance
	}
	return base-addr <= maxNearDistance
}
