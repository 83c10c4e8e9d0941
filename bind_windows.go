//go:build windows

package minhook

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// resolveSymbol looks the symbol up through the loader. An empty module
// selects the running executable's image.
func resolveSymbol(module, symbol string) (uintptr, error) {
	if module == "" {
		h, err := windows.GetModuleHandle(nil)
		if err != nil {
			return 0, errors.WithMessage(StatusModuleNotFound, "self")
		}
		addr, err := windows.GetProcAddress(h, symbol)
		if err != nil {
			return 0, errors.WithMessagef(StatusFunctionNotFound, "self!%s", symbol)
		}
		return addr, nil
	}

	dll := windows.NewLazySystemDLL(module)
	if err := dll.Load(); err != nil {
		return 0, errors.WithMessage(StatusModuleNotFound, module)
	}
	proc := dll.NewProc(symbol)
	if err := proc.Find(); err != nil {
		return 0, errors.WithMessagef(StatusFunctionNotFound, "%s!%s", module, symbol)
	}
	return proc.Addr(), nil
}
