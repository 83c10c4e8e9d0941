// Package symtab reads symbol tables out of on-disk object files. It
// understands ELF, PE and Mach-O; when the symbol table is stripped it falls
// back to the Go runtime's pcln table and then to DWARF subprogram entries.
// It also exposes the raw bytes behind a virtual address so a function's
// prologue can be inspected without loading the binary.
package symtab

import (
	"debug/dwarf"
	"debug/gosym"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrNotFound reports a symbol absent from both the symbol table and the
// DWARF info.
var ErrNotFound = errors.New("symbol not found")

type objFile interface {
	symbols() (map[string]uint64, error)
	bytesAt(vaddr uint64, n int) ([]byte, error)
	mode() int
	pie() bool
	pclntab() (data []byte, textStart uint64, err error)
	dwarfData() (*dwarf.Data, error)
}

var openers = []func(io.ReaderAt) (objFile, error){
	openELF,
	openPE,
	openMachO,
}

// File is an open object file with lazily loaded symbols.
type File struct {
	path  string
	r     *os.File
	obj   objFile
	syms  map[string]uint64
	gotab *gosym.Table
}

// Open opens path and probes it against each supported object format.
func Open(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.WithMessage(err, "symtab")
	}
	for _, try := range openers {
		if obj, oerr := try(r); oerr == nil {
			return &File{path: path, r: r, obj: obj}, nil
		}
	}
	r.Close()
	return nil, errors.Errorf("symtab: %s: unrecognized object file", path)
}

func (f *File) Close() error {
	return f.r.Close()
}

// Mode returns the code bitness of the object, 32 or 64.
func (f *File) Mode() int {
	return f.obj.mode()
}

// PIE reports whether symbol values are relative to a load base chosen at
// runtime rather than absolute addresses.
func (f *File) PIE() bool {
	return f.obj.pie()
}

// Symbol returns the virtual address of name. When the symbol table has no
// entry it tries the Go pcln table, then walks the DWARF subprogram entries
// before giving up with ErrNotFound.
func (f *File) Symbol(name string) (uint64, error) {
	if f.syms == nil {
		syms, err := f.obj.symbols()
		if err != nil {
			return 0, errors.WithMessagef(err, "symtab: %s", f.path)
		}
		f.syms = syms
	}
	if addr, ok := f.syms[name]; ok && addr != 0 {
		return addr, nil
	}
	if addr, ok := f.goSymbol(name); ok {
		return addr, nil
	}
	return f.dwarfLookup(name)
}

// Prologue returns the first n bytes of the named function's code.
func (f *File) Prologue(name string, n int) ([]byte, error) {
	addr, err := f.Symbol(name)
	if err != nil {
		return nil, err
	}
	buf, err := f.obj.bytesAt(addr, n)
	if err != nil {
		return nil, errors.WithMessagef(err, "symtab: %s: %s", f.path, name)
	}
	return buf, nil
}
