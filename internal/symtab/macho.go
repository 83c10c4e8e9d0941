package symtab

import (
	"debug/dwarf"
	"debug/macho"
	"io"

	"github.com/pkg/errors"
)

type machoObj struct {
	f *macho.File
}

func openMachO(r io.ReaderAt) (objFile, error) {
	f, err := macho.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &machoObj{f: f}, nil
}

func (o *machoObj) symbols() (map[string]uint64, error) {
	out := make(map[string]uint64)
	if o.f.Symtab == nil {
		return out, nil
	}
	for _, s := range o.f.Symtab.Syms {
		if s.Name != "" && s.Value != 0 {
			out[s.Name] = s.Value
		}
	}
	return out, nil
}

func (o *machoObj) bytesAt(vaddr uint64, n int) ([]byte, error) {
	for _, sect := range o.f.Sections {
		if vaddr < sect.Addr || vaddr+uint64(n) > sect.Addr+sect.Size {
			continue
		}
		buf := make([]byte, n)
		if _, err := sect.ReadAt(buf, int64(vaddr-sect.Addr)); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, errors.Errorf("no section covers %#x", vaddr)
}

func (o *machoObj) mode() int {
	if o.f.Cpu == macho.Cpu386 {
		return 32
	}
	return 64
}

func (o *machoObj) pie() bool {
	return o.f.Flags&macho.FlagPIE != 0
}

func (o *machoObj) dwarfData() (*dwarf.Data, error) {
	return o.f.DWARF()
}

func (o *machoObj) pclntab() ([]byte, uint64, error) {
	sect := o.f.Section("__gopclntab")
	if sect == nil {
		return nil, 0, errors.New("no __gopclntab section")
	}
	data, err := sect.Data()
	if err != nil {
		return nil, 0, err
	}
	text := o.f.Section("__text")
	if text == nil {
		return nil, 0, errors.New("no __text section")
	}
	return data, text.Addr, nil
}
