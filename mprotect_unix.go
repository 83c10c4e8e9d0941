//go:build unix

package minhook

import (
	"syscall"
	"unsafe"
)

const (
	protReadExec      = syscall.PROT_READ | syscall.PROT_EXEC
	protReadWriteExec = syscall.PROT_READ | syscall.PROT_WRITE | syscall.PROT_EXEC
)

func mprotect(buf []byte, flags int) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	pageSize := syscall.Getpagesize()

	// Round address down to page boundary.
	pageStart := addr - (addr % uintptr(pageSize))

	// Cover the offset from pageStart to addr plus the requested length,
	// rounded up to complete pages.
	totalBytes := int(addr-pageStart) + len(buf)
	regionSize := (totalBytes + pageSize - 1) / pageSize * pageSize

	region := unsafe.Slice((*byte)(unsafe.Pointer(pageStart)), regionSize)

	return syscall.Mprotect(region, flags)
}
