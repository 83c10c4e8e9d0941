package symtab

import (
	"debug/gosym"

	"github.com/pkg/errors"
)

// goTable lazily parses the Go runtime's pcln table. The linker keeps the
// table even when it strips the symbol table and DWARF (go test binaries get
// both stripped since go1.25), so this is often the only source of function
// addresses in a Go binary.
func (f *File) goTable() (*gosym.Table, error) {
	if f.gotab != nil {
		return f.gotab, nil
	}
	data, textStart, err := f.obj.pclntab()
	if err != nil {
		return nil, err
	}
	tab, err := gosym.NewTable(nil, gosym.NewLineTable(data, textStart))
	if err != nil {
		return nil, errors.WithMessagef(err, "symtab: %s: pclntab", f.path)
	}
	f.gotab = tab
	return tab, nil
}

func (f *File) goSymbol(name string) (uint64, bool) {
	tab, err := f.goTable()
	if err != nil {
		return 0, false
	}
	fn := tab.LookupFunc(name)
	if fn == nil {
		return 0, false
	}
	return fn.Entry, true
}
