//go:build windows

package minhook

import "golang.org/x/sys/windows"

// mapBlock reserves and commits one executable block, probing addresses
// outward from near at allocation-granularity steps. VirtualAlloc fails on an
// occupied address instead of moving the mapping, so probing is safe.
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
				addr, err := windows.VirtualAlloc(hint, blockSize,
					windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_EXECUTE_READ)
				if err == nil && addr != 0 {
					return &memoryBlock{base: addr}, nil
				}
			}
		}
	}

	addr, err := windows.VirtualAlloc(0, blockSize,
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_EXECUTE_READ)
	if err != nil {
		return nil, err
	}
	return &memoryBlock{base: addr}, nil
}

func unmapBlock(addr uintptr) {
	_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
