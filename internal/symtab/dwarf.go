package symtab

import (
	"debug/dwarf"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"
	dwarfreader "github.com/go-delve/delve/pkg/dwarf/reader"
	"github.com/pkg/errors"
)

// dwarfLookup resolves name to the low PC of its DWARF subprogram entry. Go
// binaries built with -ldflags=-s keep DWARF even when .symtab is gone, so
// this recovers function addresses the symbol table cannot.
func (f *File) dwarfLookup(name string) (uint64, error) {
	dw, err := f.obj.dwarfData()
	if err != nil {
		return 0, errors.WithMessage(ErrNotFound, name)
	}
	rdr := dwarfreader.New(dw)
	for entry, rerr := rdr.Next(); entry != nil; entry, rerr = rdr.Next() {
		if rerr != nil {
			return 0, errors.WithMessagef(rerr, "symtab: %s", f.path)
		}
		if entry.Tag != dwarf.TagSubprogram {
			continue
		}
		if n, ok := entry.Val(dwarf.AttrName).(string); !ok || n != name {
			continue
		}
		tree, terr := godwarf.LoadTree(entry.Offset, dw, 0)
		if terr != nil {
			return 0, errors.WithMessagef(terr, "symtab: %s", f.path)
		}
		if len(tree.Ranges) == 0 {
			break
		}
		return tree.Ranges[0][0], nil
	}
	return 0, errors.WithMessage(ErrNotFound, name)
}
