//go:build windows

package minhook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func isExecutable(addr uintptr) bool {
	var mbi windows.MemoryBasicInformation
	err := windows.VirtualQuery(addr, &mbi, unsafe.Sizeof(mbi))
	if err != nil || mbi.State != windows.MEM_COMMIT {
		return false
	}
	switch mbi.Protect &^ (windows.PAGE_GUARD | windows.PAGE_NOCACHE) {
	case windows.PAGE_EXECUTE, windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		return true
	}
	return false
}
