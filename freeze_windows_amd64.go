//go:build windows && amd64

package minhook

import "golang.org/x/sys/windows"

func threadIP(h windows.Handle) (uintptr, error) {
	var ctx windows.CONTEXT
	ctx.ContextFlags = windows.CONTEXT_CONTROL
	if err := windows.GetThreadContext(h, &ctx); err != nil {
		return 0, err
	}
	return uintptr(ctx.Rip), nil
}

func setThreadIP(h windows.Handle, ip uintptr) error {
	var ctx windows.CONTEXT
	ctx.ContextFlags = windows.CONTEXT_CONTROL
	if err := windows.GetThreadContext(h, &ctx); err != nil {
		return err
	}
	ctx.Rip = uint64(ip)
	return windows.SetThreadContext(h, &ctx)
}
