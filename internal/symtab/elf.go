package symtab

import (
	"debug/dwarf"
	"debug/elf"
	"io"

	"github.com/pkg/errors"
)

type elfObj struct {
	f *elf.File
}

func openELF(r io.ReaderAt) (objFile, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &elfObj{f: f}, nil
}

func (o *elfObj) symbols() (map[string]uint64, error) {
	out := make(map[string]uint64)
	syms, err := o.f.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, err
	}
	for _, s := range syms {
		if s.Name != "" && s.Value != 0 {
			out[s.Name] = s.Value
		}
	}
	dyn, err := o.f.DynamicSymbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, err
	}
	for _, s := range dyn {
		if _, ok := out[s.Name]; !ok && s.Name != "" && s.Value != 0 {
			out[s.Name] = s.Value
		}
	}
	return out, nil
}

func (o *elfObj) bytesAt(vaddr uint64, n int) ([]byte, error) {
	for _, p := range o.f.Progs {
		if p.Type != elf.PT_LOAD || vaddr < p.Vaddr || vaddr+uint64(n) > p.Vaddr+p.Filesz {
			continue
		}
		buf := make([]byte, n)
		if _, err := p.ReadAt(buf, int64(vaddr-p.Vaddr)); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, errors.Errorf("no loadable segment covers %#x", vaddr)
}

func (o *elfObj) mode() int {
	if o.f.Class == elf.ELFCLASS64 {
		return 64
	}
	return 32
}

func (o *elfObj) pie() bool {
	return o.f.Type == elf.ET_DYN
}

func (o *elfObj) dwarfData() (*dwarf.Data, error) {
	return o.f.DWARF()
}

func (o *elfObj) pclntab() ([]byte, uint64, error) {
	sect := o.f.Section(".gopclntab")
	if sect == nil {
		// PIE links fold the table into the relro data segment.
		sect = o.f.Section(".data.rel.ro.gopclntab")
	}
	if sect == nil {
		return nil, 0, errors.New("no .gopclntab section")
	}
	data, err := sect.Data()
	if err != nil {
		return nil, 0, err
	}
	text := o.f.Section(".text")
	if text == nil {
		return nil, 0, errors.New("no .text section")
	}
	return data, text.Addr, nil
}
