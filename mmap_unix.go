//go:build unix

package minhook

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapBlock maps one executable block, probing hint addresses outward from
// near so the block lands within rel32 range when the address space allows
// it. With near == 0, or when every probe fails, the kernel picks the
// address and the caller gets a (possibly far) block.
func mapBlock(near uintptr) (*memoryBlock, error) {
	if near != 0 {
		base := near &^ uintptr(blockSize-1)
		for i := uintptr(1); i <= maxProbes; i++ {
			off := i * blockSize
			hints := [2]uintptr{base + off, 0}
			if base > off {
				hints[1] = base - off
			}
			for _, hint := range hints {
				if hint == 0 || !within32(near, hint) || !within32(near, hint+blockSize) {
					continue
				}
				addr, err := mapMemory(hint, blockSize, true)
				if err != nil {
					continue
				}
				if within32(near, addr) && within32(near, addr+blockSize) {
					return &memoryBlock{base: addr}, nil
				}
				// The kernel ignored the hint (no no-replace flag on this
				// OS); hand the mapping back and keep probing.
				unmapBlock(addr)
			}
		}
	}

	addr, err := mapMemory(0, blockSize, false)
	if err != nil {
		return nil, err
	}
	return &memoryBlock{base: addr}, nil
}

func mapMemory(hint uintptr, size int, fixed bool) (uintptr, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if fixed {
		flags |= _MAP_FIXED_NOREPLACE
	}
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(hint), uintptr(size), protReadExec, flags)
	if err != nil {
		return 0, err
	}
	return uintptr(p), nil
}

func unmapBlock(addr uintptr) {
	_ = unix.MunmapPtr(unsafe.Pointer(addr), uintptr(blockSize))
}
