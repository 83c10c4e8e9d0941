//go:build windows && 386

package minhook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// x/sys/windows does not define a 32-bit CONTEXT, so go through kernel32
// directly with the layout from winnt.h.

const _CONTEXT_CONTROL_386 = 0x10001

type context386 struct {
	ContextFlags      uint32
	Dr0, Dr1, Dr2     uint32
	Dr3, Dr6, Dr7     uint32
	FloatSave         [112]byte
	SegGs, SegFs      uint32
	SegEs, SegDs      uint32
	Edi, Esi          uint32
	Ebx, Edx          uint32
	Ecx, Eax          uint32
	Ebp, Eip          uint32
	SegCs, EFlags     uint32
	Esp, SegSs        uint32
	ExtendedRegisters [512]byte
}

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetThreadContext = kernel32.NewProc("GetThreadContext")
	procSetThreadContext = kernel32.NewProc("SetThreadContext")
)

func threadIP(h windows.Handle) (uintptr, error) {
	var ctx context386
	ctx.ContextFlags = _CONTEXT_CONTROL_386
	r, _, err := procGetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(&ctx)))
	if r == 0 {
		return 0, err
	}
	return uintptr(ctx.Eip), nil
}

func setThreadIP(h windows.Handle, ip uintptr) error {
	var ctx context386
	ctx.ContextFlags = _CONTEXT_CONTROL_386
	if r, _, err := procGetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(&ctx))); r == 0 {
		return err
	}
	ctx.Eip = uint32(ip)
	if r, _, err := procSetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(&ctx))); r == 0 {
		return err
	}
	return nil
}
