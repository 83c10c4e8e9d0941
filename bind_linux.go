//go:build linux

package minhook

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/anowalinski/minhook/internal/symtab"
)

// resolveSymbol finds the runtime address of symbol inside module. The
// module's load base is its lowest mapping in /proc/self/maps; for
// position-independent objects the symbol value is an offset from that base,
// otherwise it is already absolute.
func resolveSymbol(module, symbol string) (uintptr, error) {
	path, base, err := findModule(module)
	if err != nil {
		return 0, err
	}

	f, err := symtab.Open(path)
	if err != nil {
		return 0, errors.WithMessagef(StatusModuleNotFound, "open %s", path)
	}
	defer f.Close()

	addr, err := f.Symbol(symbol)
	if err != nil {
		return 0, errors.WithMessagef(StatusFunctionNotFound, "%s!%s", path, symbol)
	}
	if f.PIE() {
		return base + uintptr(addr), nil
	}
	return uintptr(addr), nil
}

// findModule returns the on-disk path and load base of a mapped module. An
// empty name selects the running executable. The name matches either the full
// mapped path or its final path element.
func findModule(module string) (string, uintptr, error) {
	if module == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", 0, errors.WithMessage(StatusModuleNotFound, "self")
		}
		module = exe
	}

	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return "", 0, errors.WithMessage(StatusModuleNotFound, module)
	}
	defer f.Close()

	var (
		path  string
		base  uintptr
		found bool
	)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 {
			continue
		}
		p := fields[5]
		if p != module && !strings.HasSuffix(p, "/"+module) {
			continue
		}
		lo, _, ok := parseRange(fields[0])
		if !ok {
			continue
		}
		if !found || lo < base {
			path, base, found = p, lo, true
		}
	}
	if !found {
		return "", 0, errors.WithMessage(StatusModuleNotFound, module)
	}
	return path, base, nil
}
